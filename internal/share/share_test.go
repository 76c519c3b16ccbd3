package share

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mduarte/ata/internal/domain"
	"github.com/mduarte/ata/internal/reconcile"
	"github.com/mduarte/ata/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sharedDocument(t *testing.T) *reconcile.Payload {
	t.Helper()
	forest := testutil.SeedItemForest()
	doc := testutil.NewTestDocument("Shared minutes",
		testutil.WithItems(forest.Items()...))
	now := time.Now().UTC().Truncate(time.Second)
	doc.Items[0].RecordUpdate("first pass", domain.Owner{Name: "Ana"}, nil, domain.StatusPending, now)
	doc.Items[0].RecordUpdate("second pass", domain.Owner{Name: "Ana"}, nil, domain.StatusDone, now.Add(time.Hour))
	return reconcile.FromDocument(doc)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := sharedDocument(t)

	fragment, err := Encode(p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(fragment, "z"))

	got, err := Decode(fragment)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestEncodeMinimalKeepsLatestEntryOnly(t *testing.T) {
	p := sharedDocument(t)

	fragment, err := EncodeMinimal(p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(fragment, "m"))

	got, err := Decode(fragment)
	require.NoError(t, err)

	assert.Equal(t, p.Header, got.Header)
	assert.Equal(t, p.Participants, got.Participants)
	require.Len(t, got.Items, len(p.Items))
	for i, it := range got.Items {
		assert.Equal(t, p.Items[i].ID, it.ID)
		assert.Equal(t, p.Items[i].Number, it.Number)
		require.Len(t, it.History, 1)
		require.NotNil(t, it.LatestEntry)
		assert.Equal(t, *p.Items[i].LatestEntry, it.History[0])
	}
	assert.Equal(t, "second pass", got.Items[0].LatestEntry.Description)
}

func TestDecodeLegacyBase64(t *testing.T) {
	p := sharedDocument(t)
	data, err := json.Marshal(p)
	require.NoError(t, err)
	fragment := base64.StdEncoding.EncodeToString(data)

	got, err := Decode(fragment)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestDecodeStripsHashPrefix(t *testing.T) {
	p := sharedDocument(t)
	fragment, err := Encode(p)
	require.NoError(t, err)

	got, err := Decode("#" + fragment)
	require.NoError(t, err)
	assert.Equal(t, p.Header.Title, got.Header.Title)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, tc := range []struct {
		name     string
		fragment string
	}{
		{"empty", ""},
		{"hash only", "#"},
		{"not base64", "!!!"},
		{"z with bad deflate", "z" + base64.StdEncoding.EncodeToString([]byte("not deflate"))},
		{"legacy base64 of non payload", base64.StdEncoding.EncodeToString([]byte(`{"foo":1}`))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.fragment)
			assert.ErrorIs(t, err, domain.ErrInvalidFormat)
		})
	}
}

func TestLink(t *testing.T) {
	assert.Equal(t, "https://atas.example.com/#zABC", Link("https://atas.example.com/", "zABC"))
	assert.Equal(t, "https://atas.example.com/#zABC", Link("https://atas.example.com", "zABC"))
}
