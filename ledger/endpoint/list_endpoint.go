package endpoint

import (
	"net/http"

	"github.com/luo4lu/DCEP/lib/errors"
)

// ListEndpoint is an helper object to implement paginated list endpoints.
type ListEndpoint struct {
	Page     uint64
	PageSize uint64
}

// Validate validates the input parameters.
func (e *ListEndpoint) Validate(
	r *http.Request,
) error {
	ctx := r.Context()

	// Validate page.
	page, err := ValidatePage(ctx, r.URL.Query().Get("page"))
	if err != nil {
		return errors.Trace(err)
	}
	e.Page = *page

	// Validate page_size.
	pageSize, err := ValidatePageSize(ctx, r.URL.Query().Get("page_size"))
	if err != nil {
		return errors.Trace(err)
	}
	e.PageSize = *pageSize

	return nil
}
