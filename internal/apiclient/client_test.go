package apiclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Lixing-Zhang/coupon-portal/internal/fakeapi"
	"github.com/Lixing-Zhang/coupon-portal/internal/models"
	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestClient(t *testing.T) (*Client, *fakeapi.Server) {
	t.Helper()
	fake := fakeapi.New("client-test")
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return New(srv.URL+fakeapi.BasePath, 0, slog.New(slog.NewTextHandler(io.Discard, nil))), fake
}

func login(t *testing.T, c *Client, username, password string) *models.LoginResponse {
	t.Helper()
	resp, err := c.Login(context.Background(), models.LoginRequest{Username: username, Password: password})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return resp
}

func TestClient_Login(t *testing.T) {
	c, _ := newTestClient(t)

	resp := login(t, c, fakeapi.DemoUsername, fakeapi.DemoPassword)
	if !resp.Success || resp.Token == "" {
		t.Errorf("Login() = %+v, want success with token", resp)
	}
	if resp.UserID != "34" {
		t.Errorf("UserID = %q, want 34", resp.UserID)
	}

	_, err := c.Login(context.Background(), models.LoginRequest{Username: fakeapi.DemoUsername, Password: "wrong"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message == "" {
		t.Errorf("APIError = %+v, want 401 with message", apiErr)
	}
}

func TestClient_UserCoupons(t *testing.T) {
	c, _ := newTestClient(t)
	auth := login(t, c, fakeapi.DemoUsername, fakeapi.DemoPassword)

	page, err := c.UserCoupons(context.Background(), auth.Token, auth.UserID.String(), 2, 10)
	if err != nil {
		t.Fatalf("UserCoupons() error = %v", err)
	}
	if page.TotalCount != 25 {
		t.Errorf("TotalCount = %d, want 25", page.TotalCount)
	}
	if len(page.UserCoupons) != 5 {
		t.Errorf("len(UserCoupons) = %d, want 5", len(page.UserCoupons))
	}
	if page.Page == nil || *page.Page != 2 {
		t.Errorf("Page = %v, want 2", page.Page)
	}
	if page.UserCoupons[0].EndDate.IsZero() {
		t.Error("EndDate not decoded")
	}
}

func TestClient_ProcessOrder(t *testing.T) {
	c, fake := newTestClient(t)
	auth := login(t, c, fakeapi.DemoUsername, fakeapi.DemoPassword)
	ctx := context.Background()

	res, err := c.ProcessOrder(ctx, auth.Token, models.OrderRequest{
		UserID: 34, OrderAmount: 200000, OrderDate: "2025-08-27T18:00:00", CouponCode: "WELCOME10",
	})
	if err != nil {
		t.Fatalf("ProcessOrder() error = %v", err)
	}
	if res.DiscountAmount.IntPart() != 30000 || res.FinalAmount.IntPart() != 170000 {
		t.Errorf("amounts = %s/%s, want 30000/170000", res.DiscountAmount, res.FinalAmount)
	}
	if res.Status != models.OrderCompleted {
		t.Errorf("Status = %q", res.Status)
	}
	if orders := fake.Orders(); len(orders) != 1 || orders[0].CouponCode != "WELCOME10" {
		t.Errorf("fake orders = %+v", orders)
	}

	_, err = c.ProcessOrder(ctx, auth.Token, models.OrderRequest{
		UserID: 34, OrderAmount: 200000, OrderDate: "2025-08-27T18:00:00", CouponCode: "SOLDOUT",
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != "INSUFFICIENT_BUDGET" {
		t.Errorf("ProcessOrder() error = %v, want INSUFFICIENT_BUDGET", err)
	}
}

func TestClient_AdminEndpoints(t *testing.T) {
	c, fake := newTestClient(t)
	auth := login(t, c, fakeapi.AdminUsername, fakeapi.AdminPassword)
	ctx := context.Background()

	coupons, err := c.ListCoupons(ctx, auth.Token, 0, 10)
	if err != nil {
		t.Fatalf("ListCoupons() error = %v", err)
	}
	if coupons.TotalElements != 3 || len(coupons.Coupons) != 3 {
		t.Errorf("coupons = %d/%d, want 3/3", coupons.TotalElements, len(coupons.Coupons))
	}
	if coupons.Coupons[2].Config.MaxDiscount.IntPart() != 20000 {
		t.Errorf("maxDiscount alias not decoded: %s", coupons.Coupons[2].Config.MaxDiscount)
	}

	rules, err := c.ListRules(ctx, auth.Token, 0, 10)
	if err != nil || len(rules.Rules) != 2 {
		t.Fatalf("ListRules() = %v, %v", rules, err)
	}

	cols, err := c.ListCollections(ctx, auth.Token, 0, 10)
	if err != nil {
		t.Fatalf("ListCollections() error = %v", err)
	}
	if cols.TotalCount != 1 || len(cols.Collections) != 1 || len(cols.Collections[0].RuleIDs) != 2 {
		t.Errorf("collections = %+v", cols)
	}

	if err := c.UpdateCoupon(ctx, auth.Token, 1, models.UpdateCouponRequest{Code: "WELCOME10"}); err != nil {
		t.Fatalf("UpdateCoupon() error = %v", err)
	}
	if got, _ := fake.CouponCollection(1); got != nil {
		t.Errorf("collection = %d, want detached", *got)
	}

	err = c.UpdateRule(ctx, auth.Token, 1, models.ModifyRuleRequest{
		RuleID:     1,
		RuleConfig: map[string]any{"type": models.RuleMinOrderAmount, "min_amount": 250000},
	})
	if err != nil {
		t.Fatalf("UpdateRule() error = %v", err)
	}
	if got := fake.RuleConfiguration(1)["min_amount"]; got != float64(250000) {
		t.Errorf("min_amount = %v, want 250000", got)
	}

	if err := c.UpdateCollection(ctx, auth.Token, models.ModifyCollectionRequest{CollectionID: 1, RuleIDs: []int64{2}}); err != nil {
		t.Fatalf("UpdateCollection() error = %v", err)
	}
	if got := fake.CollectionRules(1); len(got) != 1 || got[0] != 2 {
		t.Errorf("rules = %v, want [2]", got)
	}

	err = c.UpdateCollection(ctx, auth.Token, models.ModifyCollectionRequest{CollectionID: 42})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("UpdateCollection(42) error = %v, want 404", err)
	}
}

func TestClient_ListCollectionsShapes(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount int64
		wantLen   int
	}{
		{"wrapped", `{"success":true,"data":{"collections":[{"collectionId":1}],"totalCount":7}}`, 7, 1},
		{"bare object", `{"collections":[{"collectionId":1},{"collectionId":2}],"totalCount":2}`, 2, 2},
		{"total elements", `{"collections":[{"collectionId":1}],"totalElements":4}`, 4, 1},
		{"array", `[{"collectionId":1},{"collectionId":2},{"collectionId":3}]`, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c := New(srv.URL, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
			got, err := c.ListCollections(context.Background(), "t", 0, 10)
			if err != nil {
				t.Fatalf("ListCollections() error = %v", err)
			}
			if got.TotalCount != tt.wantCount || len(got.Collections) != tt.wantLen {
				t.Errorf("got total %d len %d, want %d/%d", got.TotalCount, len(got.Collections), tt.wantCount, tt.wantLen)
			}
		})
	}
}

func TestClient_Errors(t *testing.T) {
	t.Run("server error without body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := New(srv.URL, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
		_, err := c.ListRules(context.Background(), "t", 0, 1)
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != 500 || apiErr.Message != "" {
			t.Errorf("error = %v, want bare 500 APIError", err)
		}
	})

	t.Run("malformed success body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "<html>")
		}))
		defer srv.Close()

		c := New(srv.URL, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
		_, err := c.ListRules(context.Background(), "t", 0, 1)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("error = %v, want ErrDecode", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := New(url, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
		_, err := c.Login(context.Background(), models.LoginRequest{Username: "a", Password: "b"})
		if !errors.Is(err, ErrTransport) {
			t.Errorf("error = %v, want ErrTransport", err)
		}
	})

	t.Run("bearer header", func(t *testing.T) {
		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			_, _ = io.WriteString(w, `{"rules":[]}`)
		}))
		defer srv.Close()

		c := New(srv.URL, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
		if _, err := c.ListRules(context.Background(), "abc", 0, 1); err != nil {
			t.Fatal(err)
		}
		if got != "Bearer abc" {
			t.Errorf("Authorization = %q", got)
		}
	})
}
