package dexie

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// SubmitOfferRequest uploads an offer to dexie.
type SubmitOfferRequest struct {
	// Offer is the bech32m-encoded offer file text. Required.
	Offer string
	// DropOnly keeps the offer out of the public order book.
	DropOnly bool
	// ClaimRewards marks the offer as claiming liquidity rewards.
	ClaimRewards bool
}

type submitOfferBody struct {
	Offer        string `json:"offer"`
	DropOnly     bool   `json:"drop_only,omitempty"`
	ClaimRewards bool   `json:"claim_rewards,omitempty"`
}

// SubmitOffer posts an offer and returns the decoded response envelope, the
// same parsed-JSON contract as every read operation.
func (c *Client) SubmitOffer(ctx context.Context, req SubmitOfferRequest) (*Response, error) {
	if strings.TrimSpace(req.Offer) == "" {
		return nil, ErrMissingOffer
	}
	body := submitOfferBody{
		Offer:        req.Offer,
		DropOnly:     req.DropOnly,
		ClaimRewards: req.ClaimRewards,
	}
	return c.post(ctx, c.baseURL+offersPath, body)
}

// SearchOffersRequest narrows an offer search. Zero-valued fields are omitted
// from the query, leaving the server defaults in effect.
type SearchOffersRequest struct {
	// Status keeps only offers in the given states. Duplicates are dropped;
	// each remaining status becomes its own status= query occurrence.
	Status []OfferStatus
	// Offered, Requested, and OfferedOrRequested match an asset (ticker code
	// or asset id) on the respective side of the offer.
	Offered            string
	Requested          string
	OfferedOrRequested string
	// OfferedType, RequestedType, and OfferedOrRequestedType narrow the
	// matched side to cat or nft.
	OfferedType            AssetType
	RequestedType          AssetType
	OfferedOrRequestedType AssetType
	// Sort orders the result set.
	Sort SortOrder
	// Compact asks for the abbreviated offer representation.
	Compact bool
	// IncludeMultipleRequested keeps offers requesting more than one asset.
	IncludeMultipleRequested bool
	// Page selects the result page, starting at 1.
	Page int
	// PageSize bounds the number of offers per page.
	PageSize int
	// OffersOnly projects the response to its "offers" field.
	OffersOnly bool
}

// SearchOffers queries the offer book.
func (c *Client) SearchOffers(ctx context.Context, req SearchOffersRequest) (*Response, error) {
	params := Params{}
	if req.Offered != "" {
		params["offered"] = req.Offered
	}
	if req.Requested != "" {
		params["requested"] = req.Requested
	}
	if req.OfferedOrRequested != "" {
		params["offered_or_requested"] = req.OfferedOrRequested
	}
	if req.OfferedType != "" {
		if !req.OfferedType.valid() {
			return nil, fmt.Errorf("dexie: invalid offered type %q", req.OfferedType)
		}
		params["offered_type"] = string(req.OfferedType)
	}
	if req.RequestedType != "" {
		if !req.RequestedType.valid() {
			return nil, fmt.Errorf("dexie: invalid requested type %q", req.RequestedType)
		}
		params["requested_type"] = string(req.RequestedType)
	}
	if req.OfferedOrRequestedType != "" {
		if !req.OfferedOrRequestedType.valid() {
			return nil, fmt.Errorf("dexie: invalid offered_or_requested type %q", req.OfferedOrRequestedType)
		}
		params["offered_or_requested_type"] = string(req.OfferedOrRequestedType)
	}
	if req.Sort != "" {
		if !req.Sort.valid() {
			return nil, fmt.Errorf("dexie: invalid sort order %q", req.Sort)
		}
		params["sort"] = string(req.Sort)
	}
	if req.Compact {
		params["compact"] = true
	}
	if req.IncludeMultipleRequested {
		params["include_multiple_requested"] = true
	}
	if req.Page > 0 {
		params["page"] = req.Page
	}
	if req.PageSize > 0 {
		params["page_size"] = req.PageSize
	}

	u, err := BuildURL(c.baseURL+offersPath, params)
	if err != nil {
		return nil, err
	}
	// A Params map holds each key once, so repeated status= occurrences are
	// accumulated by chaining one BuildURL call per status.
	for _, status := range dedupeStatuses(req.Status) {
		if !status.Valid() {
			return nil, fmt.Errorf("dexie: invalid offer status %d", int(status))
		}
		if u, err = BuildURL(u, Params{"status": int(status)}); err != nil {
			return nil, err
		}
	}

	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	return project(resp, req.OffersOnly, "offers")
}

// GetOfferRequest looks up a single offer.
type GetOfferRequest struct {
	// ID is the dexie offer id, used as a path segment. Required.
	ID string
	// OfferOnly projects the response to its "offer" field.
	OfferOnly bool
}

// GetOffer fetches one offer by its dexie id.
func (c *Client) GetOffer(ctx context.Context, req GetOfferRequest) (*Response, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return nil, ErrMissingOfferID
	}
	resp, err := c.get(ctx, c.baseURL+offersPath+"/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return project(resp, req.OfferOnly, "offer")
}
