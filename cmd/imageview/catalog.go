package main

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"slices"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/exp/maps"

	"github.com/skdltmxn/typeimage-go/typeimage"
)

// catalog lists the types the viewer knows by name.
var catalog = map[string]reflect.Type{
	"bytes.Buffer":    reflect.TypeFor[bytes.Buffer](),
	"strings.Builder": reflect.TypeFor[strings.Builder](),
	"time.Time":       reflect.TypeFor[time.Time](),
	"time.Duration":   reflect.TypeFor[time.Duration](),
	"url.URL":         reflect.TypeFor[url.URL](),
	"fmt.Stringer":    reflect.TypeFor[fmt.Stringer](),
	"io.Reader":       reflect.TypeFor[io.Reader](),
	"[]int":           reflect.TypeFor[[]int](),
	"map[string]int":  reflect.TypeFor[map[string]int](),
	"demo.Entity":     reflect.TypeFor[Entity](),
	"demo.Account":    reflect.TypeFor[Account](),
	"demo.Ledger":     reflect.TypeFor[Ledger](),
}

// catalogNames returns the catalog names in sorted order.
func catalogNames() []string {
	names := maps.Keys(catalog)
	slices.Sort(names)
	return names
}

func resolveType(name string) (*typeimage.TypeImage, error) {
	t, ok := catalog[name]
	if !ok {
		return nil, pkgerrors.Errorf("unknown type %q (see 'imageview types')", name)
	}
	return cache.Of(t), nil
}

// Entity is the root of the demo hierarchy.
type Entity struct {
	ID      int
	created time.Time
}

func (e *Entity) Created() time.Time { return e.created }
func (e *Entity) Touch()             { e.created = time.Now() }

// Account embeds Entity and stores its balance in a backing field.
type Account struct {
	Entity
	Owner   string
	balance int `image:"Balance"`
}

func (a *Account) Balance() int { return a.balance }

func (a *Account) Deposit(amount int, memo ...string) error {
	if amount <= 0 {
		return fmt.Errorf("deposit of %d", amount)
	}
	if a.balance+amount > maxBalance {
		return fmt.Errorf("balance would exceed %d", maxBalance)
	}
	a.balance += amount
	return nil
}

func (a *Account) String() string { return fmt.Sprintf("%s:%d", a.Owner, a.balance) }

// Ledger is a fixed-size list of entries indexed by position.
type Ledger struct {
	entries []int
}

func (l *Ledger) At(i int) int { return l.entries[i] }
func (l *Ledger) Set(i, v int) { l.entries[i] = v }
func (l *Ledger) Len() int     { return len(l.entries) }

// Pop removes the last entry and returns it.
func (l *Ledger) Pop() (int, error) {
	if len(l.entries) == 0 {
		return 0, pkgerrors.New("empty ledger")
	}
	v := l.entries[len(l.entries)-1]
	l.entries = l.entries[:len(l.entries)-1]
	return v, nil
}

func (l *Ledger) Total() (n int) {
	for _, e := range l.entries {
		n += e
	}
	return n
}

const maxBalance = 1_000_000

var defaultOwner = "nobody"

func NewAccount(owner string) *Account {
	return &Account{Entity: Entity{created: time.Now()}, Owner: owner}
}

func NewLedger(size int) *Ledger {
	return &Ledger{entries: make([]int, size)}
}

func registerDemo(c *typeimage.Cache) error {
	return multierr.Combine(
		c.Register(reflect.TypeFor[Account](),
			typeimage.Var("DefaultOwner", &defaultOwner),
			typeimage.Const("MaxBalance", maxBalance),
			typeimage.Ctor(NewAccount),
		),
		c.Register(reflect.TypeFor[Ledger](),
			typeimage.Func("demo.NewLedger", NewLedger),
			typeimage.Ctor(NewLedger),
		),
	)
}
