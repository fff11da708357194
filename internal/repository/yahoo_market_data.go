package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"StockCast/internal/domain/models"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/util"

	"github.com/go-resty/resty/v2"
)

// YahooConfig configures the chart API client.
type YahooConfig struct {
	BaseURL   string
	Timeout   time.Duration
	Retries   int
	UserAgent string
}

// YahooMarketData loads daily bars from the Yahoo Finance chart API.
type YahooMarketData struct {
	client *resty.Client
	l      *applogger.Logger
}

func NewYahooMarketData(cfg YahooConfig, l *applogger.Logger) *YahooMarketData {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		})
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &YahooMarketData{client: client, l: l}
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		GMTOffset int64  `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// Bars returns daily bars in [from, to). Days with any null field are skipped.
func (y *YahooMarketData) Bars(ctx context.Context, ticker string, from, to time.Time) ([]models.Bar, error) {
	start := time.Now()
	resp, err := y.client.R().
		SetContext(ctx).
		SetPathParam("ticker", ticker).
		SetQueryParams(map[string]string{
			"interval":       "1d",
			"period1":        strconv.FormatInt(from.Unix(), 10),
			"period2":        strconv.FormatInt(to.Unix(), 10),
			"includePrePost": "false",
		}).
		Get("/v8/finance/chart/{ticker}")
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}

	var body chartResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		if resp.StatusCode() == http.StatusNotFound {
			return nil, fmt.Errorf("yahoo chart %s: %w", ticker, models.ErrNoData)
		}
		return nil, fmt.Errorf("yahoo chart %s: status %d: %w", ticker, resp.StatusCode(), err)
	}
	if resp.StatusCode() == http.StatusNotFound || (body.Chart.Error != nil && body.Chart.Error.Code == "Not Found") {
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, models.ErrNoData)
	}
	if resp.StatusCode() != http.StatusOK {
		msg := resp.Status()
		if body.Chart.Error != nil {
			msg = body.Chart.Error.Description
		}
		return nil, fmt.Errorf("yahoo chart %s: status %d: %s", ticker, resp.StatusCode(), msg)
	}
	if len(body.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, models.ErrNoData)
	}

	bars := toBars(body.Chart.Result[0], from, to)
	y.l.Debug("yahoo chart ok",
		applogger.String("ticker", ticker),
		applogger.Int("bars", len(bars)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, models.ErrNoData)
	}
	return bars, nil
}

func toBars(r chartResult, from, to time.Time) []models.Bar {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	q := r.Indicators.Quote[0]
	out := make([]models.Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		o, okO := at(q.Open, i)
		h, okH := at(q.High, i)
		lo, okL := at(q.Low, i)
		c, okC := at(q.Close, i)
		v, okV := at(q.Volume, i)
		if !(okO && okH && okL && okC && okV) {
			continue
		}
		day := tradingDay(ts, r.Meta.GMTOffset)
		if day.Before(from) || !day.Before(to) {
			continue
		}
		// the chart API can repeat the current session as a trailing row
		if n := len(out); n > 0 && out[n-1].Date.Equal(day) {
			out = out[:n-1]
		}
		out = append(out, models.Bar{Date: day, Open: o, High: h, Low: lo, Close: c, Volume: v})
	}
	return out
}

func at(xs []*float64, i int) (float64, bool) {
	if i >= len(xs) || xs[i] == nil || math.IsNaN(*xs[i]) {
		return 0, false
	}
	return *xs[i], true
}

// tradingDay maps an exchange-local session timestamp to its UTC calendar date.
func tradingDay(ts, gmtOffset int64) time.Time {
	return util.MidnightUTC(time.Unix(ts+gmtOffset, 0))
}
