package captable

import (
	"fmt"
	"strings"
)

// ShareClass identifies a class of shares.
type ShareClass int

const (
	// ClassA is the common share class, one vote per share.
	ClassA ShareClass = iota
	// ClassB is the founders' share class, ten votes per share.
	ClassB
)

// votesPerShare is the voting weight of each share class.
var votesPerShare = map[ShareClass]int64{
	ClassA: 1,
	ClassB: 10,
}

// Votes returns the number of votes attached to one share of this class.
func (c ShareClass) Votes() int64 { return votesPerShare[c] }

func (c ShareClass) String() string {
	switch c {
	case ClassA:
		return "Class A"
	case ClassB:
		return "Class B"
	default:
		return "unknown"
	}
}

func (c ShareClass) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Category classifies a shareholder.
type Category int

const (
	Founder Category = iota
	Investor
	EmployeePool
	Employee
)

func (c Category) String() string {
	switch c {
	case Founder:
		return "Founder"
	case Investor:
		return "Investor"
	case EmployeePool:
		return "Employee Option Pool"
	case Employee:
		return "Employee"
	default:
		return "unknown"
	}
}

// ParseCategory parses a category either from its display name or from a short
// key (founder, investor, pool, employee). It is case insensitive.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "founder":
		return Founder, nil
	case "investor":
		return Investor, nil
	case "pool", "esop", "employee option pool":
		return EmployeePool, nil
	case "employee":
		return Employee, nil
	default:
		return 0, fmt.Errorf("unknown shareholder category: %q", s)
	}
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Category) UnmarshalText(text []byte) error {
	v, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

const (
	// EmployeePoolID is the well-known id of the Employee Option Pool.
	EmployeePoolID = "employee-option-pool"
	// EmployeePoolName is the display name of the Employee Option Pool.
	EmployeePoolName = "Employee Option Pool"
)

// Shareholder is an entry of the cap table ledger.
type Shareholder struct {
	ID       string
	Name     string
	Category Category
	ClassA   Shares
	ClassB   Shares
}

// Shares returns the number of shares of the given class.
func (s Shareholder) Shares(c ShareClass) Shares {
	if c == ClassB {
		return s.ClassB
	}
	return s.ClassA
}

// Total returns the number of shares in all classes.
func (s Shareholder) Total() Shares { return s.ClassA + s.ClassB }

// IsPool reports whether s is the Employee Option Pool.
func (s Shareholder) IsPool() bool { return s.ID == EmployeePoolID }

// newPool returns an empty Employee Option Pool.
func newPool() Shareholder {
	return Shareholder{ID: EmployeePoolID, Name: EmployeePoolName, Category: EmployeePool}
}

// Ledger is the list of shareholders, in insertion order. Ids are unique.
//
// Functions of this package never modify a Ledger they receive, they return
// a new one instead.
type Ledger []Shareholder

// Clone returns a copy of l that can be modified freely.
func (l Ledger) Clone() Ledger {
	if l == nil {
		return nil
	}
	return append(make(Ledger, 0, len(l)), l...)
}

// Index returns the position of the shareholder with that id, or -1.
func (l Ledger) Index(id string) int {
	for i, sh := range l {
		if sh.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the shareholder with that id.
func (l Ledger) Find(id string) (Shareholder, bool) {
	if i := l.Index(id); i >= 0 {
		return l[i], true
	}
	return Shareholder{}, false
}

// FindInvestor returns the index of the Investor whose name matches name,
// ignoring case, or -1.
func (l Ledger) FindInvestor(name string) int {
	for i, sh := range l {
		if sh.Category == Investor && strings.EqualFold(sh.Name, name) {
			return i
		}
	}
	return -1
}

// WithPool returns l if it already contains the Employee Option Pool, or a
// copy of l with an empty pool appended.
func (l Ledger) WithPool() Ledger {
	if l.Index(EmployeePoolID) >= 0 {
		return l
	}
	return append(l.Clone(), newPool())
}
