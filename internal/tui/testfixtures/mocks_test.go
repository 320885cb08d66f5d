package testfixtures

import (
	"context"
	"errors"
	"testing"

	"github.com/fbcorp/gleo/internal/wizard"
	"github.com/stretchr/testify/require"
)

func TestMockLister_List(t *testing.T) {
	t.Parallel()

	lister := NewMockLister(Entries())
	entries, err := lister.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, 1, lister.Calls())
	require.Equal(t, 2, lister.LastLimit())

	entries[0].Code = "Z9999"
	require.Equal(t, FixedCode, lister.Entries[0].Code, "callers get a copy")
}

func TestMockLister_Error(t *testing.T) {
	t.Parallel()

	lister := NewMockLister(nil)
	lister.Err = errors.New("journal offline")
	_, err := lister.List(context.Background(), 0)
	require.EqualError(t, err, "journal offline")
}

func TestMockTransport_Submit(t *testing.T) {
	t.Parallel()

	tr := NewMockTransport()
	resp, err := tr.Submit(context.Background(), wizard.Payload{Code: FixedCode})
	require.NoError(t, err)
	require.True(t, resp.OK)
	require.Len(t, tr.Payloads(), 1)
	require.Equal(t, FixedCode, tr.Payloads()[0].Code)
}
