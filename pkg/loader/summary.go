package loader

import (
	"github.com/sw33tLie/tagscope/pkg/stock"
	"github.com/sw33tLie/tagscope/pkg/tags"
)

// Invalid is a stock whose custom tags contain at least one tag that fails
// validation.
type Invalid struct {
	StockCode string
	Exchange  string
	Category  string
	Tag       string
	Problems  []string
}

// Summary describes a freshly loaded collection.
type Summary struct {
	Total    int
	WithTags int
	Invalid  []Invalid
}

// Summarize counts tagged stocks and lists every invalid tag occurrence.
func Summarize(stocks []stock.Stock, v *tags.Validator) Summary {
	sum := Summary{Total: len(stocks)}
	for _, s := range stocks {
		if !s.HasTags() {
			continue
		}
		sum.WithTags++
		for category, items := range tags.Parse(s.CustomTags) {
			for _, item := range items {
				if v.Validate(item.Name, item.Detail) != tags.Error {
					continue
				}
				sum.Invalid = append(sum.Invalid, Invalid{
					StockCode: s.Code,
					Exchange:  s.Exchange,
					Category:  category,
					Tag:       tags.Format(category, item.Name, item.Detail),
					Problems:  tags.CheckStructure(category, item.Name, item.Detail),
				})
			}
		}
	}
	return sum
}
