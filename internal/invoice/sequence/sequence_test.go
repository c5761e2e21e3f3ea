package sequence

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smallbiznis/factura/internal/invoice/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.SequenceCounter{}))
	return db
}

func TestNext_StartsAtOnePerPartition(t *testing.T) {
	db := newTestDB(t)
	node, _ := snowflake.NewNode(1)
	tenant := node.Generate()
	allocator := New()
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		var got int64
		err := db.Transaction(func(tx *gorm.DB) error {
			n, err := allocator.Next(ctx, tx, tenant, 2025, domain.DocumentKindStandard)
			got = n
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}

	// Other partitions have independent counters.
	var got int64
	err := db.Transaction(func(tx *gorm.DB) error {
		n, err := allocator.Next(ctx, tx, tenant, 2025, domain.DocumentKindAvoir)
		got = n
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	err = db.Transaction(func(tx *gorm.DB) error {
		n, err := allocator.Next(ctx, tx, tenant, 2026, domain.DocumentKindStandard)
		got = n
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestNext_TenantsAreIsolated(t *testing.T) {
	db := newTestDB(t)
	node, _ := snowflake.NewNode(1)
	allocator := New()
	ctx := context.Background()

	tenantA := node.Generate()
	tenantB := node.Generate()

	for i := 0; i < 2; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			_, err := allocator.Next(ctx, tx, tenantA, 2025, domain.DocumentKindStandard)
			return err
		})
		require.NoError(t, err)
	}

	var got int64
	err := db.Transaction(func(tx *gorm.DB) error {
		n, err := allocator.Next(ctx, tx, tenantB, 2025, domain.DocumentKindStandard)
		got = n
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestNext_RollbackUndoesIncrement(t *testing.T) {
	db := newTestDB(t)
	node, _ := snowflake.NewNode(1)
	tenant := node.Generate()
	allocator := New()
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := allocator.Next(ctx, tx, tenant, 2025, domain.DocumentKindStandard)
		return err
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = db.Transaction(func(tx *gorm.DB) error {
		n, err := allocator.Next(ctx, tx, tenant, 2025, domain.DocumentKindStandard)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// The rolled back number is handed out again.
	var got int64
	err = db.Transaction(func(tx *gorm.DB) error {
		n, err := allocator.Next(ctx, tx, tenant, 2025, domain.DocumentKindStandard)
		got = n
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), got)
}

func TestNext_ConcurrentCommittedAllocationsAreDistinct(t *testing.T) {
	// Shared-cache memory DB so every goroutine's connection sees the
	// same counter row.
	db, err := gorm.Open(sqlite.Open("file:alloc_concurrency?mode=memory&cache=shared&_pragma=busy_timeout(5000)"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.SequenceCounter{}))

	node, _ := snowflake.NewNode(1)
	tenant := node.Generate()
	allocator := New()
	ctx := context.Background()

	const workers = 20
	var (
		mu  sync.Mutex
		got = make(map[int64]struct{}, workers)
		wg  sync.WaitGroup
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				var number int64
				err := db.Transaction(func(tx *gorm.DB) error {
					n, err := allocator.Next(ctx, tx, tenant, 2025, domain.DocumentKindStandard)
					number = n
					return err
				})
				if err == nil {
					mu.Lock()
					if _, dup := got[number]; dup {
						t.Errorf("number %d allocated twice", number)
					}
					got[number] = struct{}{}
					mu.Unlock()
					return
				}
				// sqlite writer contention; retry until the lock clears.
				if strings.Contains(err.Error(), "locked") || strings.Contains(err.Error(), "busy") {
					time.Sleep(time.Millisecond)
					continue
				}
				t.Errorf("allocation failed: %v", err)
				return
			}
		}()
	}
	wg.Wait()

	require.Len(t, got, workers)
	for n := int64(1); n <= workers; n++ {
		assert.Contains(t, got, n)
	}
}

func TestNext_RejectsUnknownKind(t *testing.T) {
	db := newTestDB(t)
	node, _ := snowflake.NewNode(1)
	allocator := New()

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := allocator.Next(context.Background(), tx, node.Generate(), 2025, domain.DocumentKind("draft"))
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}
