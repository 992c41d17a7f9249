package captable

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/captable/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// record kinds, one per JSONL line.
const (
	recordTable       = "table"
	recordShareholder = "shareholder"
	recordRound       = "round"
)

type shareholderRecord struct {
	Record   string   `json:"record"`
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	ClassA   Shares   `json:"classA,omitempty"`
	ClassB   Shares   `json:"classB,omitempty"`
}

type investorRecord struct {
	ID            string          `json:"id,omitempty"`
	ShareholderID string          `json:"shareholder,omitempty"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Shares        Shares          `json:"shares"`
}

type roundRecord struct {
	Record             string           `json:"record"`
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Date               date.Date        `json:"date,omitzero"`
	Model              ValuationModel   `json:"model"`
	PercentageAcquired decimal.Decimal  `json:"percentageAcquired,omitzero"`
	PreMoney           decimal.Decimal  `json:"preMoney"`
	Investment         decimal.Decimal  `json:"investment"`
	PostMoney          decimal.Decimal  `json:"postMoney"`
	SharePrice         decimal.Decimal  `json:"sharePrice"`
	SharesIssued       Shares           `json:"sharesIssued"`
	OptionPoolIncrease Shares           `json:"optionPoolIncrease,omitempty"`
	Investors          []investorRecord `json:"investors"`
}

func newRoundRecord(r FundingRound) roundRecord {
	rec := roundRecord{
		Record:             recordRound,
		ID:                 r.ID,
		Name:               r.Name,
		Date:               r.Date,
		Model:              r.Model,
		PercentageAcquired: r.PercentageAcquired,
		PreMoney:           r.PreMoney.Decimal(),
		Investment:         r.Investment.Decimal(),
		PostMoney:          r.PostMoney.Decimal(),
		SharePrice:         r.SharePrice.Decimal(),
		SharesIssued:       r.SharesIssued,
		OptionPoolIncrease: r.OptionPoolIncrease,
		Investors:          make([]investorRecord, 0, len(r.Investors)),
	}
	for _, inv := range r.Investors {
		rec.Investors = append(rec.Investors, investorRecord{
			ID:            inv.ID,
			ShareholderID: inv.ShareholderID,
			Name:          inv.Name,
			Amount:        inv.Amount.Decimal(),
			Shares:        inv.SharesAcquired,
		})
	}
	return rec
}

func (rec roundRecord) round(currency string) FundingRound {
	r := FundingRound{
		ID:                 rec.ID,
		Name:               rec.Name,
		Date:               rec.Date,
		Model:              rec.Model,
		PercentageAcquired: rec.PercentageAcquired,
		PreMoney:           M(rec.PreMoney, currency),
		Investment:         M(rec.Investment, currency),
		PostMoney:          M(rec.PostMoney, currency),
		SharePrice:         M(rec.SharePrice, currency).exact(),
		SharesIssued:       rec.SharesIssued,
		OptionPoolIncrease: rec.OptionPoolIncrease,
	}
	for _, inv := range rec.Investors {
		r.Investors = append(r.Investors, InvestorDetail{
			ID:             inv.ID,
			ShareholderID:  inv.ShareholderID,
			Name:           inv.Name,
			Amount:         M(inv.Amount, currency),
			SharesAcquired: inv.Shares,
		})
	}
	return r
}

// DecodeTable decodes a cap table from a stream of JSONL data.
//
// The stream starts with an optional table record, followed by shareholder
// records in ledger order and round records in history order. The Employee
// Option Pool is added if the stream does not contain it.
func DecodeTable(r io.Reader) (*Table, error) {
	t := &Table{shareholders: Ledger{}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Record string `json:"record"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: could not identify record: %w", line, err)
		}

		switch identifier.Record {
		case recordTable:
			var rec struct {
				Currency string `json:"currency"`
			}
			if err := json.Unmarshal(lineBytes, &rec); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			t.currency = rec.Currency
		case recordShareholder:
			var rec shareholderRecord
			if err := json.Unmarshal(lineBytes, &rec); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if rec.ID == "" {
				return nil, fmt.Errorf("line %d: shareholder %q has no id", line, rec.Name)
			}
			if t.shareholders.Index(rec.ID) >= 0 {
				return nil, fmt.Errorf("line %d: duplicate shareholder id %q", line, rec.ID)
			}
			t.shareholders = append(t.shareholders, Shareholder{
				ID:       rec.ID,
				Name:     rec.Name,
				Category: rec.Category,
				ClassA:   rec.ClassA,
				ClassB:   rec.ClassB,
			})
		case recordRound:
			var rec roundRecord
			if err := json.Unmarshal(lineBytes, &rec); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			t.rounds = append(t.rounds, rec.round(t.currency))
		default:
			return nil, fmt.Errorf("line %d: unknown record %q", line, identifier.Record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	t.shareholders = t.shareholders.WithPool()
	return t, nil
}

// EncodeTable writes the cap table to w in JSONL format.
func EncodeTable(w io.Writer, t *Table) error {
	decimal.MarshalJSONWithoutQuotes = true

	var head jsonObjectWriter
	head.Append("record", recordTable)
	head.Optional("currency", t.currency)
	if err := writeLine(w, &head); err != nil {
		return err
	}

	for _, sh := range t.shareholders {
		rec := shareholderRecord{
			Record:   recordShareholder,
			ID:       sh.ID,
			Name:     sh.Name,
			Category: sh.Category,
			ClassA:   sh.ClassA,
			ClassB:   sh.ClassB,
		}
		if err := writeLine(w, rec); err != nil {
			return err
		}
	}
	for _, r := range t.rounds {
		if err := writeLine(w, newRoundRecord(r)); err != nil {
			return err
		}
	}
	return nil
}

// writeLine marshals v and writes it to w followed by a newline.
func writeLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}
