package venues

// pageWindow is how many page numbers show on each side of the current page.
const pageWindow = 2

// PageItem is one entry in the rendered pagination strip: either a concrete
// page number or a single ellipsis standing in for a gap.
type PageItem struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// PageSequence renders the compact page strip: page 1 and the last page are
// always present, pages within pageWindow of current fill the middle, and
// each gap collapses to one ellipsis. No page number repeats.
func PageSequence(current, total int) []PageItem {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	items := []PageItem{}
	prev := 0
	for n := 1; n <= total; n++ {
		if n != 1 && n != total && (n < current-pageWindow || n > current+pageWindow) {
			continue
		}
		if prev != 0 && n-prev > 1 {
			items = append(items, PageItem{Ellipsis: true})
		}
		items = append(items, PageItem{Number: n})
		prev = n
	}
	return items
}
