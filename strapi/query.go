package strapi

import (
	"net/url"
	"strconv"

	"github.com/doaqui/doaqui/core"
)

// ListValues translates a UI list query to the wire query string.
//
// The UI is 0-indexed, the wire is 1-indexed: pageIndex=0 becomes
// pagination[page]=1. Sort keys keep the caller's priority order as
// repeated "sort[]=field:direction" tokens.
func ListValues(q core.ListQuery) url.Values {
	values := url.Values{}

	if q.PageSize > 0 {
		values.Set("pagination[page]", strconv.Itoa(q.PageIndex+1))
		values.Set("pagination[pageSize]", strconv.Itoa(q.PageSize))
	}

	for _, key := range q.Sort {
		direction := "asc"
		if key.Desc {
			direction = "desc"
		}
		values.Add("sort[]", key.Field+":"+direction)
	}

	for field, value := range q.Filters {
		values.Set("filters["+field+"]", value)
	}

	for _, relation := range q.Populate {
		values.Add("populate[]", relation)
	}

	return values
}

// pageInfoFrom maps wire pagination metadata back to the 0-indexed UI
// shape: wire page=1 becomes pageIndex=0.
func pageInfoFrom(p wirePagination) core.PageInfo {
	index := p.Page - 1
	if index < 0 {
		index = 0
	}
	return core.PageInfo{
		PageIndex: index,
		PageSize:  p.PageSize,
		PageCount: p.PageCount,
		Total:     p.Total,
	}
}

type wirePagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}
