package store

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2026, time.March, 15, 8, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *MemoryPersistence) {
	t.Helper()
	p := NewMemoryPersistence()
	s := New(p, WithClock(func() time.Time { return fixedNow }))
	t.Cleanup(func() { s.Close() })
	return s, p
}

func ptr[T any](v T) *T { return &v }

// ============================================================
// Seed and initial load
// ============================================================

func TestNewSeedsWhenEmpty(t *testing.T) {
	s, p := newTestStore(t)
	st := s.State()

	if st.IsPremium {
		t.Fatal("seed should be on the free plan")
	}
	if st.Name != "Student" {
		t.Fatalf("expected name Student, got %q", st.Name)
	}
	if !st.Budget.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected budget 500, got %s", st.Budget)
	}
	if len(st.Subjects) != 2 || len(st.Assignments) != 2 || len(st.Expenses) != 2 || len(st.Schedule) != 2 {
		t.Fatalf("unexpected seed sizes: %+v", st)
	}
	if len(st.Moods) != 0 {
		t.Fatal("seed should have no moods")
	}
	if len(p.Raw()) == 0 {
		t.Fatal("seed should be persisted on first start")
	}
}

func TestSeedExpensesTotal(t *testing.T) {
	st := Seed(fixedNow)
	total := decimal.Zero
	for _, e := range st.Expenses {
		total = total.Add(e.Amount)
	}
	if !total.Equal(decimal.RequireFromString("57.50")) {
		t.Fatalf("expected 57.50, got %s", total)
	}
}

func TestNewLoadsExisting(t *testing.T) {
	p := NewMemoryPersistence()
	st := Seed(fixedNow)
	st.Name = "Ada"
	st.IsPremium = true
	if err := p.Save(st); err != nil {
		t.Fatal(err)
	}

	s := New(p)
	got := s.State()
	if got.Name != "Ada" || !got.IsPremium {
		t.Fatalf("expected persisted state, got %+v", got)
	}
}

func TestNewMalformedFallsBackToSeed(t *testing.T) {
	p := NewMemoryPersistence()
	p.SetRaw([]byte("{not json"))

	s := New(p, WithClock(func() time.Time { return fixedNow }))
	if got := s.State(); got.Name != "Student" || len(got.Subjects) != 2 {
		t.Fatalf("expected seed after malformed document, got %+v", got)
	}
}

func TestDecodeNullFallsBackToSeed(t *testing.T) {
	docs := []string{
		`null`,
		`{}`,
		`[]`,
		`{"name":"S","budget":"500"}`,
		`{"name":"S","budget":"0","subjects":[],"assignments":[],"expenses":[],"moods":[],"schedule":[]}`,
		`{"name":"S","budget":"500","subjects":null,"assignments":[],"expenses":[],"moods":[],"schedule":[]}`,
	}
	for _, doc := range docs {
		if _, err := Decode([]byte(doc)); err == nil {
			t.Errorf("Decode(%s) should fail", doc)
		}

		p := NewMemoryPersistence()
		p.SetRaw([]byte(doc))
		s := New(p, WithClock(func() time.Time { return fixedNow }))
		got := s.State()
		if got.Name != "Student" || len(got.Subjects) != 2 || !got.Budget.Equal(decimal.NewFromInt(500)) {
			t.Errorf("%s: expected seed, got name=%q subjects=%d budget=%s", doc, got.Name, len(got.Subjects), got.Budget)
		}
	}
}

// ============================================================
// Update
// ============================================================

func TestUpdateReplacesOnlyPresentKeys(t *testing.T) {
	s, _ := newTestStore(t)
	before := s.State()

	after := s.Update(Patch{Name: ptr("Grace")})
	if after.Name != "Grace" {
		t.Fatalf("name not updated: %q", after.Name)
	}
	if len(after.Subjects) != len(before.Subjects) || !after.Budget.Equal(before.Budget) {
		t.Fatal("absent keys must be untouched")
	}
}

func TestUpdateIsShallow(t *testing.T) {
	s, _ := newTestStore(t)
	one := []Subject{{ID: "x", Name: "Only", Color: ColorPink}}
	got := s.Update(Patch{Subjects: &one})
	if len(got.Subjects) != 1 || got.Subjects[0].ID != "x" {
		t.Fatalf("collection should be replaced wholesale, got %+v", got.Subjects)
	}
	if len(got.Assignments) != 2 {
		t.Fatal("other collections should be untouched")
	}
}

func TestUpdatePersistsBeforeReturn(t *testing.T) {
	s, p := newTestStore(t)
	s.Update(Patch{IsPremium: ptr(true)})

	reloaded, ok := p.Load()
	if !ok {
		t.Fatal("expected persisted document")
	}
	if !reloaded.IsPremium {
		t.Fatal("update should be durable when Update returns")
	}
}

func TestStateIsACopy(t *testing.T) {
	s, _ := newTestStore(t)
	st := s.State()
	st.Subjects[0].Name = "mutated"
	if s.State().Subjects[0].Name == "mutated" {
		t.Fatal("State must not share slices with the store")
	}
}

func TestSubscribe(t *testing.T) {
	s, _ := newTestStore(t)
	var seen []string
	unsub := s.Subscribe(func(st UserState) { seen = append(seen, st.Name) })

	s.Update(Patch{Name: ptr("A")})
	s.Update(Patch{Name: ptr("B")})
	unsub()
	s.Update(Patch{Name: ptr("C")})
	unsub() // second call is a no-op

	if len(seen) != 2 || seen[0] != "A" || seen[1] != "B" {
		t.Fatalf("unexpected notifications: %v", seen)
	}
}

// ============================================================
// Codec
// ============================================================

func TestEncodeIdempotent(t *testing.T) {
	p := NewMemoryPersistence()
	if err := p.Save(Seed(fixedNow.In(time.FixedZone("X", 2*3600)))); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		before := p.Raw()
		st, ok := p.Load()
		if !ok {
			t.Fatal("load failed")
		}
		if err := p.Save(st); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(before, p.Raw()) {
			t.Fatalf("round %d drifted:\n%s\n---\n%s", i, before, p.Raw())
		}
	}
}

func TestEncodeWritesVersionAndEmptyCollections(t *testing.T) {
	data, err := Encode(UserState{Name: "x"})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"version": 1`, `"moods": []`, `"schedule": []`} {
		if !bytes.Contains(data, []byte(want)) {
			t.Fatalf("expected %s in %s", want, data)
		}
	}
}

func TestDecodeAcceptsUnversionedNumericAmounts(t *testing.T) {
	doc := `{"isPremium":false,"name":"S","budget":500,
	"subjects":[],"assignments":[],"moods":[],"schedule":[],
	"expenses":[{"id":"1","amount":12.5,"category":"Food","date":"2026-03-15T10:00:00.000Z","description":"Lunch"}]}`
	st, err := Decode([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if st.Version != SchemaVersion {
		t.Fatalf("expected version upgrade, got %d", st.Version)
	}
	if !st.Expenses[0].Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("amount = %s", st.Expenses[0].Amount)
	}
}

func TestDecodeRejectsFutureVersion(t *testing.T) {
	if _, err := Decode([]byte(`{"version": 99}`)); err == nil {
		t.Fatal("expected error for future version")
	}
}

func TestDecodeEmpty(t *testing.T) {
	if _, err := Decode([]byte("   ")); err == nil {
		t.Fatal("expected error for empty document")
	}
}

// ============================================================
// Backends
// ============================================================

func TestDiskvRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := NewDiskv(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Load(); ok {
		t.Fatal("fresh slot should be absent")
	}

	s := New(p, WithClock(func() time.Time { return fixedNow }))
	s.Update(Patch{Name: ptr("Disk")})

	p2, err := NewDiskv(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	st, ok := p2.Load()
	if !ok || st.Name != "Disk" {
		t.Fatalf("expected reloaded state, got %+v ok=%v", st, ok)
	}

	if err := p2.Erase(); err != nil {
		t.Fatal(err)
	}
	if _, ok := p2.Load(); ok {
		t.Fatal("erased slot should be absent")
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "quadra.db")
	p, err := NewSQLite(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Load(); ok {
		t.Fatal("fresh slot should be absent")
	}
	st := Seed(fixedNow)
	st.IsPremium = true
	if err := p.Save(st); err != nil {
		t.Fatal(err)
	}
	if _, err := p.UpdatedAt(); err != nil {
		t.Fatal(err)
	}
	p.Close()

	// Reopen: should succeed and not re-migrate
	p2, err := NewSQLite(path, "")
	if err != nil {
		t.Fatal(err)
	}
	defer p2.Close()
	got, ok := p2.Load()
	if !ok || !got.IsPremium {
		t.Fatalf("expected persisted premium state, got %+v", got)
	}
}

func TestSQLiteMigrationIdempotent(t *testing.T) {
	p, err := NewSQLite(":memory:", "")
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if err := p.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
	var version int
	p.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestSQLiteErase(t *testing.T) {
	p, err := NewSQLite(":memory:", "")
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if err := p.Save(Seed(fixedNow)); err != nil {
		t.Fatal(err)
	}
	if err := p.Erase(); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Load(); ok {
		t.Fatal("erased slot should be absent")
	}
	if err := p.Erase(); err != nil {
		t.Fatalf("erasing an empty slot: %v", err)
	}
}

func TestResetRestoresSeed(t *testing.T) {
	s, p := newTestStore(t)
	s.Update(Patch{Name: ptr("Ada"), IsPremium: ptr(true), Subjects: &[]Subject{}})

	var notified UserState
	unsubscribe := s.Subscribe(func(st UserState) { notified = st })
	defer unsubscribe()

	got, err := s.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Student" || got.IsPremium || len(got.Subjects) != 2 {
		t.Fatalf("expected seed after reset, got %+v", got)
	}
	if notified.Name != "Student" {
		t.Fatal("subscribers should see the reset state")
	}
	persisted, ok := p.Load()
	if !ok || persisted.Name != "Student" || len(persisted.Subjects) != 2 {
		t.Fatalf("reset state should be persisted, got %+v ok=%v", persisted, ok)
	}
}

func TestSQLiteMalformedIsAbsent(t *testing.T) {
	p, err := NewSQLite(":memory:", "")
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if _, err := p.db.Exec(`INSERT INTO slots (key, value) VALUES (?, ?)`, DefaultSlot, "garbage"); err != nil {
		t.Fatal(err)
	}
	if _, ok := p.Load(); ok {
		t.Fatal("malformed document should load as absent")
	}
}

// ============================================================
// Enums
// ============================================================

func TestParseEnums(t *testing.T) {
	if c, err := ParseCategory(" food "); err != nil || c != CategoryFood {
		t.Fatalf("ParseCategory: %v %v", c, err)
	}
	if _, err := ParseCategory("Rent"); err == nil {
		t.Fatal("expected error for unknown category")
	}
	if m, err := ParseMood("stressed"); err != nil || m != MoodStressed {
		t.Fatalf("ParseMood: %v %v", m, err)
	}
	if _, err := ParseMood("Angry"); err == nil {
		t.Fatal("expected error for unknown mood")
	}
	if e, err := ParseEventType("EXAM"); err != nil || e != EventExam {
		t.Fatalf("ParseEventType: %v %v", e, err)
	}
	if Mood("Bored").Valid() || !MoodCalm.Valid() {
		t.Fatal("Mood.Valid mismatch")
	}
}

func TestPaletteHex(t *testing.T) {
	for _, c := range Palette {
		if c.Hex() == "#666666" {
			t.Fatalf("palette color %s has no hex", c)
		}
	}
}
