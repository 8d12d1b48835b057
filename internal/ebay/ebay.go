// Package ebay fetches completed-sale listings from the eBay Finding API
// and normalizes them into sale candidates for classification.
package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/guarzo/cardgap/internal/model"
)

const (
	findingEndpoint = "https://svcs.ebay.com/services/search/FindingService/v1"

	// Sports Trading Cards category.
	sportsCardCategory = "212"

	// eBay Finding API basic tier is 5000 calls/day; stay well under it.
	defaultRate = rate.Limit(0.5)
)

// Client talks to the eBay Finding API.
type Client struct {
	appID      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// findingResponse mirrors the Finding API's everything-is-an-array JSON.
type findingResponse struct {
	FindCompletedItemsResponse []struct {
		SearchResult []struct {
			Item []findingItem `json:"item"`
		} `json:"searchResult"`
	} `json:"findCompletedItemsResponse"`
}

type findingItem struct {
	Title     []string `json:"title"`
	Condition []struct {
		ConditionID          []string `json:"conditionId"`
		ConditionDisplayName []string `json:"conditionDisplayName"`
	} `json:"condition"`
	SellingStatus []struct {
		CurrentPrice []struct {
			Value      string `json:"__value__"`
			CurrencyID string `json:"@currencyId"`
		} `json:"currentPrice"`
	} `json:"sellingStatus"`
	ListingInfo []struct {
		EndTime []string `json:"endTime"`
	} `json:"listingInfo"`
}

// NewClient builds a Finding API client. An empty appID yields a client
// whose Available reports false.
func NewClient(appID string) *Client {
	return &Client{
		appID:      appID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(defaultRate, 1),
	}
}

// SetRateLimit overrides the outbound request rate.
func (c *Client) SetRateLimit(perSec float64) {
	c.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
}

// Available reports whether the client is configured.
func (c *Client) Available() bool {
	return c.appID != ""
}

// Source names this fetcher for logs and metrics.
func (c *Client) Source() string { return "ebay" }

// SearchSold runs one completed-items search and returns the normalized
// sale candidates. Empty-title items are dropped and unparseable prices are
// coerced to 0 so nothing downstream sees a NaN.
func (c *Client) SearchSold(ctx context.Context, query string, max int) ([]model.SaleCandidate, error) {
	if !c.Available() {
		return nil, fmt.Errorf("eBay app ID not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("OPERATION-NAME", "findCompletedItems")
	params.Set("SERVICE-VERSION", "1.13.0")
	params.Set("SECURITY-APPNAME", c.appID)
	params.Set("RESPONSE-DATA-FORMAT", "JSON")
	params.Set("keywords", query)
	params.Set("categoryId", sportsCardCategory)
	params.Set("itemFilter(0).name", "SoldItemsOnly")
	params.Set("itemFilter(0).value", "true")
	params.Set("paginationInput.entriesPerPage", strconv.Itoa(max))
	params.Set("sortOrder", "EndTimeSoonest")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, findingEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-EBAY-SOA-SERVICE-NAME", "FindingService")
	req.Header.Set("X-EBAY-SOA-OPERATION-NAME", "findCompletedItems")
	req.Header.Set("X-EBAY-SOA-SECURITY-APPNAME", c.appID)
	req.Header.Set("X-EBAY-SOA-RESPONSE-DATA-FORMAT", "JSON")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("eBay request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(body, resp.StatusCode)
	}

	var parsed findingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse eBay response: %w", err)
	}

	var out []model.SaleCandidate
	if len(parsed.FindCompletedItemsResponse) > 0 &&
		len(parsed.FindCompletedItemsResponse[0].SearchResult) > 0 {
		for _, item := range parsed.FindCompletedItemsResponse[0].SearchResult[0].Item {
			if c := normalizeItem(item); c.Title != "" {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func normalizeItem(item findingItem) model.SaleCandidate {
	var c model.SaleCandidate

	if len(item.Title) > 0 {
		c.Title = item.Title[0]
	}

	if len(item.SellingStatus) > 0 && len(item.SellingStatus[0].CurrentPrice) > 0 {
		price := item.SellingStatus[0].CurrentPrice[0]
		if v, err := strconv.ParseFloat(price.Value, 64); err == nil && v > 0 {
			c.Price = v
		}
		c.Currency = price.CurrencyID
	}

	if len(item.Condition) > 0 {
		cond := item.Condition[0]
		if len(cond.ConditionDisplayName) > 0 {
			c.Condition = cond.ConditionDisplayName[0]
		}
		if len(cond.ConditionID) > 0 {
			c.ConditionID = cond.ConditionID[0]
		}
	}

	if len(item.ListingInfo) > 0 && len(item.ListingInfo[0].EndTime) > 0 {
		if t, err := time.Parse(time.RFC3339, item.ListingInfo[0].EndTime[0]); err == nil {
			c.SoldDate = &t
		}
	}

	return c
}

func apiError(body []byte, status int) error {
	var errorResp struct {
		ErrorMessage []struct {
			Error []struct {
				Message []string `json:"message"`
			} `json:"error"`
		} `json:"errorMessage"`
	}
	if err := json.Unmarshal(body, &errorResp); err == nil &&
		len(errorResp.ErrorMessage) > 0 &&
		len(errorResp.ErrorMessage[0].Error) > 0 &&
		len(errorResp.ErrorMessage[0].Error[0].Message) > 0 {
		return fmt.Errorf("eBay API error: %s", errorResp.ErrorMessage[0].Error[0].Message[0])
	}
	return fmt.Errorf("eBay API returned status %d", status)
}
