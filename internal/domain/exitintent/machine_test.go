package exitintent_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/landing-ab/internal/domain/analytics"
	"github.com/turtacn/landing-ab/internal/domain/exitintent"
	"github.com/turtacn/landing-ab/internal/testutil"
)

type countingPresenter struct {
	shows []exitintent.Popup
	hides int
}

func (p *countingPresenter) Show(popup exitintent.Popup) { p.shows = append(p.shows, popup) }
func (p *countingPresenter) Hide()                       { p.hides++ }

type fixture struct {
	sched     *testutil.FakeScheduler
	presenter *countingPresenter
	tracker   *analytics.Recorder
}

func newMachine(t *testing.T, variant string, width int) (*exitintent.Machine, *fixture) {
	t.Helper()
	f := &fixture{
		sched:     testutil.NewFakeScheduler(),
		presenter: &countingPresenter{},
		tracker:   analytics.NewRecorder(),
	}
	m := exitintent.New(variant, width, exitintent.Config{}, exitintent.Deps{
		Scheduler: f.sched,
		Presenter: f.presenter,
		Tracker:   f.tracker,
		VisitorID: "v-1",
	})
	return m, f
}

func TestNew_NoPopupSkips(t *testing.T) {
	m, f := newMachine(t, exitintent.VariantNoPopup, 1280)
	assert.Nil(t, m)
	assert.Zero(t, f.sched.Created())

	m, _ = newMachine(t, "something-else", 1280)
	assert.Nil(t, m)
}

func TestPointerExit_OneShot(t *testing.T) {
	ctx := context.Background()
	m, f := newMachine(t, exitintent.VariantDiscount, 1280)
	require.NotNil(t, m)
	assert.Equal(t, exitintent.StateArmed, m.State())

	assert.True(t, m.PointerExit(ctx, 3, false))
	assert.False(t, m.PointerExit(ctx, 0, false))

	require.Len(t, f.presenter.shows, 1)
	assert.Equal(t, "Подождите! 🎁", f.presenter.shows[0].Title)
	assert.Equal(t, exitintent.StateShown, m.State())
	assert.False(t, m.ShownAt().IsZero())

	events := f.tracker.EventsWithAction(analytics.ActionExitPopupShown)
	require.Len(t, events, 1)
	assert.Equal(t, analytics.CategoryABTest, events[0].Category)
	assert.Equal(t, exitintent.VariantDiscount, events[0].Label)
	assert.Equal(t, "v-1", events[0].VisitorID)
}

func TestPointerExit_Filters(t *testing.T) {
	ctx := context.Background()
	m, f := newMachine(t, exitintent.VariantLeadMagnet, 1280)

	assert.False(t, m.PointerExit(ctx, 10, false), "at threshold")
	assert.False(t, m.PointerExit(ctx, 400, false), "side exit")
	assert.False(t, m.PointerExit(ctx, 2, true), "moved into a child element")
	assert.Empty(t, f.presenter.shows)

	assert.True(t, m.PointerExit(ctx, 9.5, false))
	assert.Equal(t, "Скачать бесплатно", f.presenter.shows[0].Button)
}

func TestInactivity_MobileFires(t *testing.T) {
	m, f := newMachine(t, exitintent.VariantDiscount, 375)

	pending := f.sched.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, 30*time.Second, pending[0].Delay)

	assert.Equal(t, 1, f.sched.FireAll())
	assert.Equal(t, exitintent.StateShown, m.State())
	assert.Len(t, f.presenter.shows, 1)
}

func TestInactivity_DesktopDoesNotFire(t *testing.T) {
	m, f := newMachine(t, exitintent.VariantDiscount, 1280)
	f.sched.FireAll()
	assert.Equal(t, exitintent.StateArmed, m.State())
	assert.Empty(t, f.presenter.shows)
}

func TestInactivity_ResizeIsReadAtExpiry(t *testing.T) {
	m, f := newMachine(t, exitintent.VariantDiscount, 1280)
	m.Resize(600)
	f.sched.FireAll()
	assert.Equal(t, exitintent.StateShown, m.State())
}

func TestActivity_Rearms(t *testing.T) {
	m, f := newMachine(t, exitintent.VariantDiscount, 375)
	first := f.sched.Pending()[0]

	m.Activity()
	m.Activity()

	assert.Equal(t, 3, f.sched.Created())
	pending := f.sched.Pending()
	require.Len(t, pending, 1)
	assert.False(t, f.sched.Fire(first), "stale timer was cancelled")

	f.sched.Fire(pending[0])
	assert.Len(t, f.presenter.shows, 1)
}

func TestTriggersAfterShowAreNoops(t *testing.T) {
	ctx := context.Background()
	m, f := newMachine(t, exitintent.VariantDiscount, 375)
	require.True(t, m.PointerExit(ctx, 1, false))

	assert.Empty(t, f.sched.Pending(), "countdown cancelled on show")
	m.Activity()
	assert.Empty(t, f.sched.Pending())
	f.sched.FireAll()
	assert.Len(t, f.presenter.shows, 1)
}

func TestDismiss(t *testing.T) {
	ctx := context.Background()
	m, f := newMachine(t, exitintent.VariantDiscount, 1280)

	m.Dismiss()
	assert.Zero(t, f.presenter.hides, "nothing to dismiss yet")

	m.PointerExit(ctx, 1, false)
	m.Dismiss()
	m.Dismiss()
	assert.Equal(t, 1, f.presenter.hides)
	assert.True(t, m.Dismissed())

	assert.False(t, m.PointerExit(ctx, 1, false))
	assert.Len(t, f.presenter.shows, 1)
}

func TestStop(t *testing.T) {
	ctx := context.Background()
	m, f := newMachine(t, exitintent.VariantDiscount, 375)
	m.Stop()

	assert.Empty(t, f.sched.Pending())
	assert.False(t, m.PointerExit(ctx, 1, false))
	m.Activity()
	assert.Empty(t, f.sched.Pending())
	assert.Empty(t, f.presenter.shows)
}

func TestCapture(t *testing.T) {
	var c exitintent.Capture
	assert.Nil(t, c.Take())

	popup, _ := exitintent.PopupFor(exitintent.VariantDiscount)
	c.Show(popup)
	got := c.Take()
	require.NotNil(t, got)
	assert.Equal(t, "Нет, спасибо", got.Dismiss)
	assert.Nil(t, c.Take())
	assert.False(t, c.Hidden())

	c.Show(popup)
	c.Hide()
	assert.True(t, c.Hidden())
	assert.Nil(t, c.Take(), "a dismissed popup is not delivered")
}

func TestPopupFor(t *testing.T) {
	_, ok := exitintent.PopupFor(exitintent.VariantNoPopup)
	assert.False(t, ok)

	p, ok := exitintent.PopupFor(exitintent.VariantLeadMagnet)
	require.True(t, ok)
	assert.Equal(t, "15 процессов, которые можно автоматизировать уже сегодня", p.Text)
	assert.Equal(t, "Закрыть", p.Dismiss)
}

//Personal.AI order the ending
