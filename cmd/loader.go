package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/pnl"
	"github.com/etnz/pnl/period"
)

// DecodeTrades reads a trade file in CSV format. The expected header is
//
//	trade_id,symbol,timestamp,side,quantity,price,kind,strike
//
// Timestamps are RFC 3339. Prices accept decimal or 32nds notation.
// Malformed rows are reported as item errors and skipped; only an unreadable
// file aborts.
func DecodeTrades(path string, translator pnl.Translator) ([]pnl.Trade, []pnl.ItemError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open trade file: %w", err)
	}
	defer f.Close()
	return decodeTrades(f, translator)
}

func decodeTrades(r io.Reader, translator pnl.Translator) ([]pnl.Trade, []pnl.ItemError, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read trade header: %w", err)
	}
	col, err := columns(header, "trade_id", "symbol", "timestamp", "side", "quantity", "price")
	if err != nil {
		return nil, nil, err
	}
	// kind and strike are optional columns, absent in futures-only files.
	kindCol, strikeCol := index(header, "kind"), index(header, "strike")

	var trades []pnl.Trade
	var errs []pnl.ItemError
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("cannot read trade row: %w", err)
		}

		id, native := rec[col["trade_id"]], rec[col["symbol"]]
		symbol, ok := translator.Translate(native)
		if !ok {
			errs = append(errs, pnl.ItemError{Symbol: native, ID: id,
				Err: fmt.Errorf("unknown vendor symbol %q", native)})
			continue
		}

		t, err := decodeTrade(rec, col, kindCol, strikeCol, id, symbol)
		if err != nil {
			errs = append(errs, pnl.ItemError{Symbol: symbol, ID: id, Err: err})
			continue
		}
		trades = append(trades, t)
	}
	return trades, errs, nil
}

func decodeTrade(rec []string, col map[string]int, kindCol, strikeCol int, id, symbol string) (pnl.Trade, error) {
	ts, err := time.Parse(time.RFC3339, rec[col["timestamp"]])
	if err != nil {
		return pnl.Trade{}, fmt.Errorf("invalid timestamp: %w", err)
	}
	side, err := pnl.ParseSide(rec[col["side"]])
	if err != nil {
		return pnl.Trade{}, err
	}
	qty, err := pnl.ParseQuantity(rec[col["quantity"]])
	if err != nil {
		return pnl.Trade{}, fmt.Errorf("invalid quantity: %w", err)
	}
	price, err := parsePrice(rec[col["price"]])
	if err != nil {
		return pnl.Trade{}, err
	}

	t := pnl.Trade{ID: id, Symbol: symbol, Time: ts, Side: side, Quantity: qty, Price: price}
	if kindCol >= 0 && rec[kindCol] != "" {
		if t.Kind, err = pnl.ParseKind(rec[kindCol]); err != nil {
			return pnl.Trade{}, err
		}
	}
	if strikeCol >= 0 && rec[strikeCol] != "" {
		if t.Strike, err = parsePrice(rec[strikeCol]); err != nil {
			return pnl.Trade{}, fmt.Errorf("invalid strike: %w", err)
		}
	}
	return t, t.Validate()
}

// parsePrice accepts plain decimal ("110.5") or 32nds ("110-16") notation.
func parsePrice(s string) (pnl.Price, error) {
	if p, err := pnl.ParsePrice(s); err == nil {
		return p, nil
	}
	p, err := pnl.Parse32nds(s)
	if err != nil {
		return pnl.Price{}, fmt.Errorf("invalid price %q: not decimal nor 32nds", s)
	}
	return p, nil
}

// DecodePrices reads a mark file in CSV format with header
//
//	symbol,current,prior_close
//
// prior_close may be empty when the vendor had no close for the symbol; the
// gap is surfaced at aggregation time, not here.
func DecodePrices(path string) (*pnl.PriceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open price file: %w", err)
	}
	defer f.Close()
	return decodePrices(f)
}

func decodePrices(r io.Reader) (*pnl.PriceTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read price header: %w", err)
	}
	col, err := columns(header, "symbol", "current")
	if err != nil {
		return nil, err
	}
	priorCol := index(header, "prior_close")

	table := pnl.NewPriceTable()
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read price row: %w", err)
		}
		symbol := rec[col["symbol"]]
		current, err := parsePrice(rec[col["current"]])
		if err != nil {
			return nil, fmt.Errorf("symbol %q: %w", symbol, err)
		}
		table.SetCurrent(symbol, current)

		if priorCol >= 0 && rec[priorCol] != "" {
			prior, err := parsePrice(rec[priorCol])
			if err != nil {
				return nil, fmt.Errorf("symbol %q prior close: %w", symbol, err)
			}
			table.SetPriorClose(symbol, prior)
		}
	}
	return table, nil
}

// DecodeSettlements reads a daily settlement file in CSV format with header
//
//	symbol,date,price
//
// Dates are YYYY-MM-DD trading days. Missing days stay missing; the splitter
// reports them as gaps.
func DecodeSettlements(path string) (*pnl.PriceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open settlement file: %w", err)
	}
	defer f.Close()
	return decodeSettlements(f)
}

func decodeSettlements(r io.Reader) (*pnl.PriceTable, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read settlement header: %w", err)
	}
	col, err := columns(header, "symbol", "date", "price")
	if err != nil {
		return nil, err
	}

	table := pnl.NewPriceTable()
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read settlement row: %w", err)
		}
		symbol := rec[col["symbol"]]
		day, err := period.ParseDay(rec[col["date"]])
		if err != nil {
			return nil, fmt.Errorf("symbol %q: %w", symbol, err)
		}
		price, err := parsePrice(rec[col["price"]])
		if err != nil {
			return nil, fmt.Errorf("symbol %q on %s: %w", symbol, day, err)
		}
		table.Set(symbol, day, price)
	}
	return table, nil
}

// DecodeVendorSettlements extracts daily settlements for one symbol from a
// vendor JSON payload. The series lives at $.series.settlement.data as
// [date, price] pairs.
func DecodeVendorSettlements(path, symbol string) (*pnl.PriceTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open vendor file: %w", err)
	}
	defer f.Close()
	return decodeVendorSettlements(f, symbol)
}

func decodeVendorSettlements(r io.Reader, symbol string) (*pnl.PriceTable, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("cannot decode vendor JSON: %w", err)
	}

	path := "$.series.settlement.data"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing vendor JSON: %q %w", path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("vendor JSON %q: not a list", path)
	}

	table := pnl.NewPriceTable()
	for i, item := range jlist {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("vendor JSON entry %d: want [date, price] pair", i)
		}
		rawDay, ok := pair[0].(string)
		if !ok {
			return nil, fmt.Errorf("vendor JSON entry %d: date is not a string", i)
		}
		day, err := period.ParseDay(rawDay)
		if err != nil {
			return nil, fmt.Errorf("vendor JSON entry %d: %w", i, err)
		}
		val, ok := pair[1].(float64)
		if !ok {
			return nil, fmt.Errorf("vendor JSON entry %d: price is not a number", i)
		}
		table.Set(symbol, day, pnl.P(val))
	}
	return table, nil
}

// DecodeTranslations reads a vendor symbol mapping in CSV format with header
//
//	native,canonical
//
// Trades whose native symbol is absent from the mapping are rejected, not
// passed through.
func DecodeTranslations(path string) (pnl.Translator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open symbol file: %w", err)
	}
	defer f.Close()
	return decodeTranslations(f)
}

func decodeTranslations(r io.Reader) (pnl.Translator, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read symbol header: %w", err)
	}
	col, err := columns(header, "native", "canonical")
	if err != nil {
		return nil, err
	}

	m := make(map[string]string)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read symbol row: %w", err)
		}
		m[rec[col["native"]]] = rec[col["canonical"]]
	}
	return pnl.TranslatorFunc(func(native string) (string, bool) {
		canonical, ok := m[native]
		return canonical, ok
	}), nil
}

// columns maps required header names to their index, failing on any missing one.
func columns(header []string, required ...string) (map[string]int, error) {
	col := make(map[string]int, len(required))
	for _, name := range required {
		i := index(header, name)
		if i < 0 {
			return nil, fmt.Errorf("missing column %q in header %v", name, header)
		}
		col[name] = i
	}
	return col, nil
}

func index(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}
