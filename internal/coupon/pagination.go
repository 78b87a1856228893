package coupon

import "fmt"

// PageLink is one button of the pagination bar. Ellipsis entries carry no page.
type PageLink struct {
	Page     int
	Label    string
	Active   bool
	Ellipsis bool
}

// Pagination is the pagination bar for a coupon list page. Pages are
// zero-based; labels are one-based.
type Pagination struct {
	Visible    bool
	Current    int
	Size       int
	TotalPages int
	Total      int64
	Info       string

	HasPrev bool
	Prev    int
	HasNext bool
	Next    int
	Links   []PageLink
}

// windowRadius is how many pages are shown on each side of the current one.
const windowRadius = 2

// BuildPagination computes the bar. It is hidden when everything fits on
// one page.
func BuildPagination(current, size int, total int64) Pagination {
	p := Pagination{Current: current, Size: size, Total: total}
	if size <= 0 || total <= 0 {
		return p
	}

	p.TotalPages = int((total + int64(size) - 1) / int64(size))
	if p.TotalPages <= 1 {
		return p
	}
	p.Visible = true

	from := int64(current)*int64(size) + 1
	to := min(int64(current+1)*int64(size), total)
	p.Info = fmt.Sprintf("Hiển thị %d-%d trong tổng %d mã", from, to, total)

	if current > 0 {
		p.HasPrev, p.Prev = true, current-1
	}
	if current < p.TotalPages-1 {
		p.HasNext, p.Next = true, current+1
	}

	start := max(0, current-windowRadius)
	end := min(p.TotalPages-1, current+windowRadius)

	if start > 0 {
		p.Links = append(p.Links, pageLink(0, current))
		if start > 1 {
			p.Links = append(p.Links, PageLink{Label: "...", Ellipsis: true})
		}
	}
	for i := start; i <= end; i++ {
		p.Links = append(p.Links, pageLink(i, current))
	}
	if end < p.TotalPages-1 {
		if end < p.TotalPages-2 {
			p.Links = append(p.Links, PageLink{Label: "...", Ellipsis: true})
		}
		p.Links = append(p.Links, pageLink(p.TotalPages-1, current))
	}

	return p
}

func pageLink(page, current int) PageLink {
	return PageLink{Page: page, Label: fmt.Sprint(page + 1), Active: page == current}
}
