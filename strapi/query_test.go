package strapi

import (
	"testing"

	"github.com/doaqui/doaqui/core"
)

// Requirement: a UI request for pageIndex=0, pageSize=10 produces a
// wire request with page=1, pageSize=10.
func TestListValues_PaginationIsOneIndexed(t *testing.T) {
	tests := []struct {
		name      string
		pageIndex int
		pageSize  int
		wantPage  string
	}{
		{name: "first page", pageIndex: 0, pageSize: 10, wantPage: "1"},
		{name: "third page", pageIndex: 2, pageSize: 25, wantPage: "3"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			values := ListValues(core.ListQuery{PageIndex: test.pageIndex, PageSize: test.pageSize})

			if got := values.Get("pagination[page]"); got != test.wantPage {
				t.Errorf("pagination[page] = %q, want %q", got, test.wantPage)
			}
			if got := values.Get("pagination[pageSize]"); got == "" {
				t.Error("pagination[pageSize] missing")
			}
		})
	}
}

// Requirement: zero page size sends no pagination parameters.
func TestListValues_NoPaginationWithoutPageSize(t *testing.T) {
	values := ListValues(core.ListQuery{})
	if values.Has("pagination[page]") || values.Has("pagination[pageSize]") {
		t.Errorf("unexpected pagination params: %v", values)
	}
}

// Requirement: multiple sort keys keep the caller's priority order as
// repeated field:direction tokens.
func TestListValues_SortOrderPreserved(t *testing.T) {
	values := ListValues(core.ListQuery{
		Sort: []core.SortKey{
			{Field: "createdAt", Desc: true},
			{Field: "status_donation"},
			{Field: "id"},
		},
	})

	got := values["sort[]"]
	want := []string{"createdAt:desc", "status_donation:asc", "id:asc"}
	if len(got) != len(want) {
		t.Fatalf("sort[] = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sort[][%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// Requirement: filters and populate pass through under their wire names.
func TestListValues_FiltersAndPopulate(t *testing.T) {
	values := ListValues(core.ListQuery{
		Filters:  map[string]string{"status_donation": "Pendente"},
		Populate: []string{"donor", "ong_recipient"},
	})

	if got := values.Get("filters[status_donation]"); got != "Pendente" {
		t.Errorf("filters[status_donation] = %q", got)
	}
	populate := values["populate[]"]
	if len(populate) != 2 || populate[0] != "donor" || populate[1] != "ong_recipient" {
		t.Errorf("populate[] = %v", populate)
	}
}

// Requirement: a wire response with page=1 maps back to UI pageIndex=0.
func TestPageInfoFrom_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		wire      wirePagination
		wantIndex int
	}{
		{name: "first page", wire: wirePagination{Page: 1, PageSize: 10, PageCount: 3, Total: 25}, wantIndex: 0},
		{name: "later page", wire: wirePagination{Page: 4, PageSize: 10}, wantIndex: 3},
		{name: "missing page defaults to first", wire: wirePagination{Page: 0, PageSize: 10}, wantIndex: 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := pageInfoFrom(test.wire)

			if got.PageIndex != test.wantIndex {
				t.Errorf("PageIndex = %d, want %d", got.PageIndex, test.wantIndex)
			}
			if got.PageSize != test.wire.PageSize || got.PageCount != test.wire.PageCount || got.Total != test.wire.Total {
				t.Errorf("PageInfo = %+v, want passthrough of %+v", got, test.wire)
			}
		})
	}
}
