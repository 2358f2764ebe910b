package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dexie-space/dexie-go/pkg/dexie"
)

func (a *App) runAssets(ctx context.Context, client *dexie.Client, args []string) error {
	fs := flag.NewFlagSet("assets", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	page := fs.Int("page", 0, "page to fetch")
	pageSize := fs.Int("page-size", 0, "results per page")
	assetsOnly := fs.Bool("assets-only", false, "print only the assets array")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := client.ListAssets(ctx, dexie.ListAssetsRequest{
		Page:       *page,
		PageSize:   *pageSize,
		AssetsOnly: *assetsOnly,
	})
	if err != nil {
		return err
	}
	return a.render(resp)
}

func (a *App) runSearch(ctx context.Context, client *dexie.Client, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	status := fs.String("status", "", "comma-separated offer statuses (names or codes)")
	offered := fs.String("offered", "", "asset offered")
	requested := fs.String("requested", "", "asset requested")
	anySide := fs.String("offered-or-requested", "", "asset on either side")
	offeredType := fs.String("offered-type", "", "offered asset type (cat, nft)")
	requestedType := fs.String("requested-type", "", "requested asset type (cat, nft)")
	anySideType := fs.String("offered-or-requested-type", "", "either-side asset type (cat, nft)")
	sortOrder := fs.String("sort", "", "sort order (price, price_desc, date_completed, date_found)")
	compact := fs.Bool("compact", false, "request the abbreviated offer representation")
	multiple := fs.Bool("include-multiple-requested", false, "include offers requesting more than one asset")
	page := fs.Int("page", 0, "page to fetch")
	pageSize := fs.Int("page-size", 0, "results per page")
	offersOnly := fs.Bool("offers-only", false, "print only the offers array")
	if err := fs.Parse(args); err != nil {
		return err
	}

	statuses, err := parseStatuses(*status)
	if err != nil {
		return err
	}

	resp, err := client.SearchOffers(ctx, dexie.SearchOffersRequest{
		Status:                   statuses,
		Offered:                  *offered,
		Requested:                *requested,
		OfferedOrRequested:       *anySide,
		OfferedType:              dexie.AssetType(*offeredType),
		RequestedType:            dexie.AssetType(*requestedType),
		OfferedOrRequestedType:   dexie.AssetType(*anySideType),
		Sort:                     dexie.SortOrder(*sortOrder),
		Compact:                  *compact,
		IncludeMultipleRequested: *multiple,
		Page:                     *page,
		PageSize:                 *pageSize,
		OffersOnly:               *offersOnly,
	})
	if err != nil {
		return err
	}
	return a.render(resp)
}

func (a *App) runOffer(ctx context.Context, client *dexie.Client, args []string) error {
	fs := flag.NewFlagSet("offer", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	offerOnly := fs.Bool("offer-only", false, "print only the offer object")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: dexie offer [flags] <offer-id>")
	}

	resp, err := client.GetOffer(ctx, dexie.GetOfferRequest{
		ID:        fs.Arg(0),
		OfferOnly: *offerOnly,
	})
	if err != nil {
		return err
	}
	return a.render(resp)
}

func (a *App) runSubmit(ctx context.Context, client *dexie.Client, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	offer := fs.String("offer", "", "bech32m offer text")
	offerFile := fs.String("offer-file", "", "path to a file holding the offer text")
	dropOnly := fs.Bool("drop-only", false, "keep the offer out of the public order book")
	claimRewards := fs.Bool("claim-rewards", false, "mark the offer as claiming liquidity rewards")
	if err := fs.Parse(args); err != nil {
		return err
	}

	text, err := readOffer(*offer, *offerFile)
	if err != nil {
		return err
	}

	resp, err := client.SubmitOffer(ctx, dexie.SubmitOfferRequest{
		Offer:        text,
		DropOnly:     *dropOnly,
		ClaimRewards: *claimRewards,
	})
	if err != nil {
		return err
	}
	return a.render(resp)
}

func (a *App) runPairs(ctx context.Context, client *dexie.Client, args []string) error {
	fs := flag.NewFlagSet("pairs", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	pairsOnly := fs.Bool("pairs-only", false, "print only the pairs array")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := client.ListPairs(ctx, dexie.ListPairsRequest{PairsOnly: *pairsOnly})
	if err != nil {
		return err
	}
	return a.render(resp)
}

func (a *App) runTickers(ctx context.Context, client *dexie.Client, args []string) error {
	fs := flag.NewFlagSet("tickers", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	ticker := fs.String("ticker", "", "restrict to one ticker id, e.g. DBX_XCH")
	tickersOnly := fs.Bool("tickers-only", false, "print only the tickers array")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := client.GetTickers(ctx, dexie.GetTickersRequest{
		TickerID:    *ticker,
		TickersOnly: *tickersOnly,
	})
	if err != nil {
		return err
	}
	return a.render(resp)
}

func (a *App) runOrderBook(ctx context.Context, client *dexie.Client, args []string) error {
	fs := flag.NewFlagSet("orderbook", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	ticker := fs.String("ticker", "", "ticker id, e.g. DBX_XCH (required)")
	depth := fs.Int("depth", 0, "number of levels per side (0 for server default)")
	bookOnly := fs.Bool("orderbook-only", false, "print only the orderbook object")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := client.GetOrderBook(ctx, dexie.GetOrderBookRequest{
		TickerID:      *ticker,
		Depth:         *depth,
		OrderBookOnly: *bookOnly,
	})
	if err != nil {
		return err
	}
	return a.render(resp)
}

func (a *App) runTrades(ctx context.Context, client *dexie.Client, args []string) error {
	fs := flag.NewFlagSet("trades", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	ticker := fs.String("ticker", "", "ticker id, e.g. DBX_XCH (required)")
	tradeType := fs.String("type", "", "trade side (buy, sell)")
	limit := fs.Int("limit", 0, "maximum number of trades")
	start := fs.String("start", "", "earliest trade time, RFC 3339")
	end := fs.String("end", "", "latest trade time, RFC 3339")
	tradesOnly := fs.Bool("trades-only", false, "print only the trades array")
	if err := fs.Parse(args); err != nil {
		return err
	}

	startTime, err := parseTimeFlag(*start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	endTime, err := parseTimeFlag(*end)
	if err != nil {
		return fmt.Errorf("invalid -end: %w", err)
	}

	resp, err := client.GetHistoricalTrades(ctx, dexie.GetHistoricalTradesRequest{
		TickerID:   *ticker,
		Type:       dexie.TradeType(*tradeType),
		Limit:      *limit,
		StartTime:  startTime,
		EndTime:    endTime,
		TradesOnly: *tradesOnly,
	})
	if err != nil {
		return err
	}
	return a.render(resp)
}

// parseStatuses turns a comma-separated list of status names or numeric codes
// into offer statuses.
func parseStatuses(s string) ([]dexie.OfferStatus, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	statuses := make([]dexie.OfferStatus, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if status, err := dexie.ParseOfferStatus(part); err == nil {
			statuses = append(statuses, status)
			continue
		}
		code, err := strconv.Atoi(part)
		if err != nil || !dexie.OfferStatus(code).Valid() {
			return nil, fmt.Errorf("unknown offer status %q", part)
		}
		statuses = append(statuses, dexie.OfferStatus(code))
	}
	return statuses, nil
}

// parseTimeFlag parses an RFC 3339 timestamp, treating empty as unset.
func parseTimeFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC 3339 timestamp: %w", err)
	}
	return t, nil
}

// readOffer resolves the offer text from the -offer and -offer-file flags.
func readOffer(offer, offerFile string) (string, error) {
	switch {
	case offer != "" && offerFile != "":
		return "", fmt.Errorf("use either -offer or -offer-file, not both")
	case offer != "":
		return offer, nil
	case offerFile != "":
		raw, err := os.ReadFile(offerFile)
		if err != nil {
			return "", fmt.Errorf("read offer file: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	default:
		return "", fmt.Errorf("an offer is required (use -offer or -offer-file)")
	}
}
