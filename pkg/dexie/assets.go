package dexie

import "context"

// ListAssetsRequest pages through the asset catalog. Zero-valued fields are
// omitted from the query, leaving the server defaults in effect.
type ListAssetsRequest struct {
	// Page selects the result page, starting at 1.
	Page int
	// PageSize bounds the number of assets per page.
	PageSize int
	// AssetsOnly projects the response to its "assets" field.
	AssetsOnly bool
}

// ListAssets returns the assets known to dexie. Without projection the
// envelope carries success, count, page, and page_size alongside the list.
func (c *Client) ListAssets(ctx context.Context, req ListAssetsRequest) (*Response, error) {
	params := Params{}
	if req.Page > 0 {
		params["page"] = req.Page
	}
	if req.PageSize > 0 {
		params["page_size"] = req.PageSize
	}

	u, err := BuildURL(c.baseURL+assetsPath, params)
	if err != nil {
		return nil, err
	}
	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	return project(resp, req.AssetsOnly, "assets")
}
