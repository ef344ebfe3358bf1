package checkin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Overland-East-Bay/front-desk/internal/domain"
	"github.com/Overland-East-Bay/front-desk/internal/ports/out/memberdirectory"
)

func TestLookupByCode_RejectsMalformedCodesWithoutCallingBackend(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	l := NewLookup(dir)

	for _, code := range []string{"", "12a4", " 4821", "12345678901"} {
		_, err := l.ByCode(context.Background(), testCenter, code)
		var ae *Error
		require.ErrorAs(t, err, &ae, "code=%q", code)
		assert.Equal(t, CodeValidation, ae.Code)
	}
	dir.mu.Lock()
	defer dir.mu.Unlock()
	assert.Empty(t, dir.codeCalls)
}

func TestLookupByCode_Idempotent(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory(member(1, "Ana", "Lima", "4821", "paid"))
	l := NewLookup(dir)

	a, err := l.ByCode(context.Background(), testCenter, "4821")
	require.NoError(t, err)
	b, err := l.ByCode(context.Background(), testCenter, "4821")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLookupByCode_NotFoundIsWrapped(t *testing.T) {
	t.Parallel()

	_, err := NewLookup(newFakeDirectory()).ByCode(context.Background(), testCenter, "0000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, memberdirectory.ErrNotFound))
}

func TestLookupByName(t *testing.T) {
	t.Parallel()

	dir := newFakeDirectory()
	dir.byName["ana"] = []domain.MemberIdentity{
		withoutBilling(member(1, "Ana", "Lima", "4821", "")),
		withoutBilling(member(2, "Anabel", "Costa", "1007", "")),
	}
	l := NewLookup(dir)

	ms, err := l.ByName(context.Background(), testCenter, "   ")
	require.NoError(t, err)
	assert.Nil(t, ms)
	assert.Zero(t, dir.nameCalls)

	ms, err = l.ByName(context.Background(), testCenter, "Ana")
	require.NoError(t, err)
	assert.Len(t, ms, 2)

	_, err = l.ByName(context.Background(), testCenter, "zed")
	assert.ErrorIs(t, err, memberdirectory.ErrNotFound)

	dir.byName["empty"] = []domain.MemberIdentity{}
	_, err = l.ByName(context.Background(), testCenter, "empty")
	assert.ErrorIs(t, err, memberdirectory.ErrNotFound)
}
