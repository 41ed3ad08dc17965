package catalog

import (
	"fmt"

	"github.com/sw33tLie/tagscope/pkg/stock"
)

func mkStocks(tagStrings ...string) []stock.Stock {
	var result []stock.Stock
	for i, raw := range tagStrings {
		result = append(result, s(fmt.Sprintf("%06d", i+1), raw))
	}
	return result
}

func s(code, customTags string) stock.Stock {
	return stock.Stock{
		Code:       code,
		Name:       "Stock " + code,
		Exchange:   "SZSE",
		CustomTags: customTags,
	}
}

func codes(stocks []stock.Stock) []string {
	out := make([]string, 0, len(stocks))
	for _, st := range stocks {
		out = append(out, st.Code)
	}
	return out
}

func tagNames(list []TagDetails) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.Name)
	}
	return out
}
