package application

import (
	"context"
	"testing"

	"github.com/dfryer1193/agenda/contacts/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditSession_SubmitAndClose(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	id, err := fx.svc.CreateContact(ctx, ana(), "")
	require.NoError(t, err)

	session, err := fx.svc.BeginEdit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, session.ContactID())
	assert.Equal(t, "555-1111", session.Contact().Phone)

	f := session.Contact().Fields
	f.Phone = "555-2222"
	require.NoError(t, session.Submit(ctx, f, ""))
	assert.Equal(t, "555-2222", session.Contact().Phone)

	view, err := session.Close(ctx)
	require.NoError(t, err)
	require.NotNil(t, view.Contact)
	assert.Equal(t, "555-2222", view.Contact.Phone)
	assert.Len(t, view.Summaries, 1)

	assert.ErrorIs(t, session.Submit(ctx, f, ""), ErrSessionClosed)
}

func TestEditSession_BeginMissing(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.BeginEdit(context.Background(), 12)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditSession_TargetDeletedMeanwhile(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	first, err := fx.svc.CreateContact(ctx, ana(), "")
	require.NoError(t, err)
	second, err := fx.svc.CreateContact(ctx, domain.Fields{Name: "Bo", Surname: "Li", Phone: "1"}, "")
	require.NoError(t, err)

	session, err := fx.svc.BeginEdit(ctx, second)
	require.NoError(t, err)

	_, err = fx.svc.DeleteContact(ctx, second)
	require.NoError(t, err)

	assert.ErrorIs(t, session.Submit(ctx, session.Contact().Fields, ""), domain.ErrNotFound)

	view, err := session.Close(ctx)
	require.NoError(t, err)
	require.NotNil(t, view.Contact)
	assert.Equal(t, first, view.Contact.ID)
	assert.Len(t, view.Summaries, 1)
}

func TestEditSession_CloseOnEmptyStore(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	id, err := fx.svc.CreateContact(ctx, ana(), "")
	require.NoError(t, err)

	session, err := fx.svc.BeginEdit(ctx, id)
	require.NoError(t, err)

	_, err = fx.svc.DeleteContact(ctx, id)
	require.NoError(t, err)

	view, err := session.Close(ctx)
	require.NoError(t, err)
	assert.Nil(t, view.Contact)
	assert.Empty(t, view.Summaries)
}

func TestEditSession_LastWriterWins(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	id, err := fx.svc.CreateContact(ctx, ana(), "")
	require.NoError(t, err)

	a, err := fx.svc.BeginEdit(ctx, id)
	require.NoError(t, err)
	b, err := fx.svc.BeginEdit(ctx, id)
	require.NoError(t, err)

	fa := ana()
	fa.Email = "a@example.com"
	fb := ana()
	fb.Email = "b@example.com"

	require.NoError(t, a.Submit(ctx, fa, ""))
	require.NoError(t, b.Submit(ctx, fb, ""))

	got, err := fx.svc.GetContact(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "b@example.com", got.Email)
}
