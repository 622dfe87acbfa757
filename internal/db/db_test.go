package db

import (
	"path/filepath"
	"testing"
	"time"

	"akasha/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := Connect(filepath.Join(t.TempDir(), "akasha.db"))
	require.NoError(t, err)
	require.NoError(t, Migrate(database))
	t.Cleanup(func() { Close(database) })
	return database
}

func TestSaveSubscriptionUpserts(t *testing.T) {
	database := openTestDB(t)

	first := &model.Subscription{
		Name:     "main",
		Source:   "https://sub.example.com/a",
		Payload:  []byte("proxies: []\n"),
		Userinfo: model.SubscriptionUserinfo{Upload: 1, Download: 2, Total: 1 << 40, Expire: 1700000000},
	}
	require.NoError(t, SaveSubscription(database, first))

	second := &model.Subscription{
		Name:      "main",
		Source:    "https://sub.example.com/b",
		Payload:   []byte("proxies: [{}]\n"),
		FetchedAt: time.Unix(1800000000, 0),
		Userinfo:  model.SubscriptionUserinfo{Upload: 5, Download: 6, Total: 1 << 41},
	}
	require.NoError(t, SaveSubscription(database, second))

	var count int64
	database.Model(&model.Subscription{}).Count(&count)
	assert.Equal(t, int64(1), count)

	got, err := GetSubscription(database, "main")
	require.NoError(t, err)
	assert.Equal(t, "https://sub.example.com/b", got.Source)
	assert.Equal(t, "proxies: [{}]\n", string(got.Payload))
	assert.Equal(t, model.SubscriptionUserinfo{Upload: 5, Download: 6, Total: 1 << 41}, got.Userinfo)
	assert.Equal(t, int64(1800000000), got.FetchedAt.Unix())
}

func TestLoadSubscriptions(t *testing.T) {
	database := openTestDB(t)
	for _, name := range []string{"b", "a", "c"} {
		require.NoError(t, SaveSubscription(database, &model.Subscription{Name: name}))
	}

	all, err := LoadSubscriptions(database, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Name)
	assert.Equal(t, "c", all[2].Name)

	some, err := LoadSubscriptions(database, []string{"c", "b"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "b", some[0].Name)
}

func TestGetSubscriptionMissing(t *testing.T) {
	database := openTestDB(t)
	_, err := GetSubscription(database, "nope")
	assert.Error(t, err)
}
