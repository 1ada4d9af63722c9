package pageinsight

import (
	"strconv"
	"strings"

	"github.com/Bahjat/page-analyzer/internal/model"
)

// CountStructure returns the page title and the number of headings per level.
// Nested headings are counted independently.
func CountStructure(doc *Document) (string, model.HeadingCounts) {
	title := strings.TrimSpace(doc.Find("title").First().Text())

	var headings model.HeadingCounts
	for level := 1; level <= 6; level++ {
		headings.Add(level, doc.Find("h"+strconv.Itoa(level)).Length())
	}
	return title, headings
}
