package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"tandem/internal/core/schedule"
	"tandem/internal/modkit/repokit"
	perr "tandem/internal/platform/errors"
	"tandem/internal/platform/store"
	availdom "tandem/internal/services/availability/domain"
	"tandem/internal/services/events/domain"
	"tandem/internal/services/events/repo"
	reldom "tandem/internal/services/relationship/domain"
)

var testNow = time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

// stubDB satisfies repokit.TxRunner; the fake storage never touches it
type stubDB struct{}

func (stubDB) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (stubDB) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (stubDB) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (stubDB) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	return fn(stubDB{})
}

type fakeStorage struct {
	rows    map[string]domain.Event
	nextID  int
	gotFrom time.Time
	gotTo   time.Time
}

func newFakeStorage() *fakeStorage { return &fakeStorage{rows: map[string]domain.Event{}} }

func (f *fakeStorage) Insert(_ context.Context, ev domain.Event) (domain.Event, error) {
	f.nextID++
	ev.ID = fmt.Sprintf("ev-%d", f.nextID)
	ev.Version = 1
	ev.CreatedAt = testNow
	ev.UpdatedAt = testNow
	if ev.ProviderRefs == nil {
		ev.ProviderRefs = map[string]string{}
	}
	f.rows[ev.ID] = ev
	return ev, nil
}

func (f *fakeStorage) Get(_ context.Context, id string) (domain.Event, bool, error) {
	ev, ok := f.rows[id]
	return ev, ok, nil
}

func (f *fakeStorage) SetProviderRefs(_ context.Context, id string, refs map[string]string) error {
	ev, ok := f.rows[id]
	if !ok {
		return perr.DBf("no row %s", id)
	}
	ev.ProviderRefs = refs
	ev.Version++
	f.rows[id] = ev
	return nil
}

func (f *fakeStorage) MarkCancelled(_ context.Context, id string) (domain.Event, bool, error) {
	ev, ok := f.rows[id]
	if !ok || ev.Status != domain.StatusConfirmed {
		return domain.Event{}, false, nil
	}
	ev.Status = domain.StatusCancelled
	ev.Version++
	f.rows[id] = ev
	return ev, true, nil
}

func (f *fakeStorage) Upcoming(_ context.Context, partyID string, from, to time.Time) ([]domain.Event, error) {
	f.gotFrom, f.gotTo = from, to
	var out []domain.Event
	for _, ev := range f.rows {
		if ev.PartyID != partyID || ev.Status != domain.StatusConfirmed {
			continue
		}
		if !ev.EndsAt.After(from) || !ev.StartsAt.Before(to) {
			continue
		}
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

type fakeBinder struct{ st repo.Storage }

func (b fakeBinder) Bind(repokit.Queryer) repo.Storage { return b.st }

type fakeResolver struct {
	parties map[string]reldom.Party
	calls   int
}

func (f *fakeResolver) ResolveParty(_ context.Context, id string) (reldom.Party, error) {
	f.calls++
	p, ok := f.parties[id]
	if !ok {
		return reldom.Party{}, perr.RelationshipNotFoundf("party %s not found", id)
	}
	return p, nil
}

func (f *fakeResolver) ResolvePair(ctx context.Context, a, b string) (reldom.Party, reldom.Party, error) {
	pa, err := f.ResolveParty(ctx, a)
	if err != nil {
		return reldom.Party{}, reldom.Party{}, err
	}
	pb, err := f.ResolveParty(ctx, b)
	if err != nil {
		return reldom.Party{}, reldom.Party{}, err
	}
	return pa, pb, nil
}

func (f *fakeResolver) IsMember(context.Context, string, string) (bool, error) { return false, nil }

type fakeCreds struct {
	accounts map[string][]availdom.Account
	err      error
}

func (f *fakeCreds) AccountsOf(_ context.Context, userIDs []string) (map[string][]availdom.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string][]availdom.Account)
	for _, id := range userIDs {
		if accts, ok := f.accounts[id]; ok {
			out[id] = accts
		}
	}
	return out, nil
}

type fakeMirror struct {
	nextID  int
	created []string // "user/provider" in creation order
	deleted []string // provider event ids
	fail    map[string]bool
}

func (f *fakeMirror) Create(_ context.Context, acct availdom.Account, _ domain.MirrorEvent) (string, error) {
	key := domain.RefKey(acct.UserID, acct.Provider)
	if f.fail[key] {
		return "", perr.CalendarSyncf(nil, "%s rejected the event", key)
	}
	f.nextID++
	f.created = append(f.created, key)
	return fmt.Sprintf("prov-%d", f.nextID), nil
}

func (f *fakeMirror) Delete(_ context.Context, _ availdom.Account, providerEventID string) error {
	f.deleted = append(f.deleted, providerEventID)
	return nil
}

func party(id string, members ...string) reldom.Party {
	p := reldom.Party{ID: id, Kind: "couple", Status: reldom.StatusActive}
	for i, m := range members {
		p.Members = append(p.Members, reldom.Member{
			UserID:   m,
			Role:     "member",
			JoinedAt: testNow.AddDate(0, 0, -30+i),
		})
	}
	return p
}

func acct(userID, provider string) availdom.Account {
	return availdom.Account{UserID: userID, Provider: provider, AccessToken: "tok-" + userID}
}

type fixture struct {
	st     *fakeStorage
	rel    *fakeResolver
	creds  *fakeCreds
	mirror *fakeMirror
	svc    *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{
		st: newFakeStorage(),
		rel: &fakeResolver{parties: map[string]reldom.Party{
			"pa": party("pa", "a1", "b1"),
		}},
		creds:  &fakeCreds{accounts: map[string][]availdom.Account{}},
		mirror: &fakeMirror{fail: map[string]bool{}},
	}
	fx.svc = New(stubDB{}, fakeBinder{st: fx.st}, fx.rel, fx.creds, fx.mirror, Config{})
	fx.svc.now = func() time.Time { return testNow }
	return fx
}

func slotAt(h, d int) schedule.TimeSlot {
	start := testNow.Add(time.Duration(h) * time.Hour)
	return schedule.TimeSlot{Start: start, End: start.Add(time.Duration(d) * time.Hour)}
}

func TestBook_StoresConfirmedEvent(t *testing.T) {
	fx := newFixture(t)

	ev, err := fx.svc.Book(context.Background(), domain.BookCmd{
		PartyID: "pa",
		Slot:    slotAt(24, 1),
		Title:   "dinner",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if ev.ID == "" || ev.Status != domain.StatusConfirmed {
		t.Fatalf("stored event = %+v", ev)
	}
	if ev.ConflictStatus != schedule.StatusClear || ev.Version != 1 {
		t.Errorf("fresh booking carries status %q version %d", ev.ConflictStatus, ev.Version)
	}
	if len(fx.mirror.created) != 0 {
		t.Errorf("booking without mirror touched providers: %v", fx.mirror.created)
	}
}

func TestBook_MirrorsOntoMemberCalendars(t *testing.T) {
	fx := newFixture(t)
	fx.creds.accounts = map[string][]availdom.Account{
		"a1": {acct("a1", "google"), acct("a1", "outlook")},
		"b1": {acct("b1", "google")},
	}

	ev, err := fx.svc.Book(context.Background(), domain.BookCmd{
		PartyID: "pa",
		Slot:    slotAt(24, 1),
		Title:   "dinner",
		Mirror:  true,
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if len(fx.mirror.created) != 3 {
		t.Fatalf("mirrored %d accounts, want 3: %v", len(fx.mirror.created), fx.mirror.created)
	}
	if len(ev.ProviderRefs) != 3 {
		t.Fatalf("ProviderRefs = %v", ev.ProviderRefs)
	}
	if _, ok := ev.ProviderRefs[domain.RefKey("a1", "outlook")]; !ok {
		t.Errorf("missing ref for a1/outlook: %v", ev.ProviderRefs)
	}
	if stored := fx.st.rows[ev.ID]; len(stored.ProviderRefs) != 3 {
		t.Errorf("refs not persisted: %v", stored.ProviderRefs)
	}
	if ev.Version != 2 {
		t.Errorf("version after mirror = %d, want 2", ev.Version)
	}
}

func TestBook_MirrorFailureDoesNotFailBooking(t *testing.T) {
	fx := newFixture(t)
	fx.creds.accounts = map[string][]availdom.Account{
		"a1": {acct("a1", "google")},
		"b1": {acct("b1", "outlook")},
	}
	fx.mirror.fail[domain.RefKey("b1", "outlook")] = true

	ev, err := fx.svc.Book(context.Background(), domain.BookCmd{
		PartyID: "pa",
		Slot:    slotAt(24, 1),
		Mirror:  true,
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if len(ev.ProviderRefs) != 1 {
		t.Fatalf("ProviderRefs = %v, want only the surviving account", ev.ProviderRefs)
	}
	if _, ok := ev.ProviderRefs[domain.RefKey("a1", "google")]; !ok {
		t.Errorf("surviving ref missing: %v", ev.ProviderRefs)
	}
}

func TestBook_InvalidSlotRejected(t *testing.T) {
	fx := newFixture(t)

	start := testNow.Add(24 * time.Hour)
	_, err := fx.svc.Book(context.Background(), domain.BookCmd{
		PartyID: "pa",
		Slot:    schedule.TimeSlot{Start: start, End: start},
	})
	if perr.CodeOf(err) != perr.ErrorCodeInvalidTimeRange {
		t.Fatalf("err = %v, want invalid time range", err)
	}
	if fx.rel.calls != 0 {
		t.Errorf("invalid slot still resolved the party")
	}
}

func TestBook_UnknownParty(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.Book(context.Background(), domain.BookCmd{
		PartyID: "nobody",
		Slot:    slotAt(24, 1),
	})
	if perr.CodeOf(err) != perr.ErrorCodeRelationshipNotFound {
		t.Fatalf("err = %v, want relationship not found", err)
	}
}

func TestCancel_MarksAndDeletesMirrors(t *testing.T) {
	fx := newFixture(t)
	fx.creds.accounts = map[string][]availdom.Account{
		"a1": {acct("a1", "google")},
		"b1": {acct("b1", "google")},
	}

	ev, err := fx.svc.Book(context.Background(), domain.BookCmd{
		PartyID: "pa",
		Slot:    slotAt(24, 1),
		Mirror:  true,
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	cancelled, err := fx.svc.Cancel(context.Background(), ev.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Fatalf("status = %q", cancelled.Status)
	}
	if len(fx.mirror.deleted) != 2 {
		t.Fatalf("deleted %d mirrored copies, want 2", len(fx.mirror.deleted))
	}

	// cancelling again is a quiet no-op
	again, err := fx.svc.Cancel(context.Background(), ev.ID)
	if err != nil {
		t.Fatalf("second Cancel: %v", err)
	}
	if again.Status != domain.StatusCancelled || len(fx.mirror.deleted) != 2 {
		t.Errorf("second cancel re-deleted mirrors: %v", fx.mirror.deleted)
	}
}

func TestCancel_MissingEvent(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.Cancel(context.Background(), "ev-404")
	if perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestCancel_VanishedAccountLeavesCopy(t *testing.T) {
	fx := newFixture(t)
	fx.creds.accounts = map[string][]availdom.Account{
		"a1": {acct("a1", "google")},
		"b1": {acct("b1", "google")},
	}

	ev, err := fx.svc.Book(context.Background(), domain.BookCmd{
		PartyID: "pa",
		Slot:    slotAt(24, 1),
		Mirror:  true,
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	// b1 disconnected their calendar between booking and cancel
	delete(fx.creds.accounts, "b1")

	if _, err := fx.svc.Cancel(context.Background(), ev.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(fx.mirror.deleted) != 1 {
		t.Fatalf("deleted %d copies, want only a1's", len(fx.mirror.deleted))
	}
}

func TestListUpcoming_WindowAndOrder(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	book := func(startOffset time.Duration, d time.Duration, title string) domain.Event {
		t.Helper()
		ev, err := fx.svc.Book(ctx, domain.BookCmd{
			PartyID: "pa",
			Title:   title,
			Slot: schedule.TimeSlot{
				Start: testNow.Add(startOffset),
				End:   testNow.Add(startOffset + d),
			},
		})
		if err != nil {
			t.Fatalf("Book %s: %v", title, err)
		}
		return ev
	}

	book(time.Hour, time.Hour, "soon")
	book(20*24*time.Hour, time.Hour, "beyond horizon")
	inProgress := book(-30*time.Minute, time.Hour, "in progress")
	stale, _ := fx.svc.Cancel(ctx, book(2*time.Hour, time.Hour, "cancelled").ID)

	got, err := fx.svc.ListUpcoming(ctx, "pa", 0)
	if err != nil {
		t.Fatalf("ListUpcoming: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(got), got)
	}
	if got[0].ID != inProgress.ID || got[1].Title != "soon" {
		t.Errorf("order = %q then %q", got[0].Title, got[1].Title)
	}
	for _, ev := range got {
		if ev.ID == stale.ID {
			t.Errorf("cancelled event listed: %+v", ev)
		}
	}
	if !fx.st.gotFrom.Equal(testNow) || !fx.st.gotTo.Equal(testNow.Add(14*24*time.Hour)) {
		t.Errorf("window = [%v, %v), want the default 14 day horizon", fx.st.gotFrom, fx.st.gotTo)
	}
}

func TestListUpcoming_UnknownParty(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.ListUpcoming(context.Background(), "nobody", time.Hour)
	if perr.CodeOf(err) != perr.ErrorCodeRelationshipNotFound {
		t.Fatalf("err = %v, want relationship not found", err)
	}
}
