package mapper

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCache_BuildsOnce(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	cache := NewCache(New(WithLogger(zap.New(core))))

	const workers = 32

	var (
		wg      sync.WaitGroup
		results = make([]any, workers)
	)

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			fm, err := cache.MapFunctionOf(&withTable{})
			assert.NoError(t, err)

			results[i] = fm
		}()
	}

	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}

	assert.Equal(t, 1, logs.FilterMessage("mapped function").Len())
	assert.Equal(t, 1, cache.Len())
}

func TestCache_ValueAndPointerShareEntry(t *testing.T) {
	cache := NewCache(New())

	byValue, err := cache.MapFunction(reflect.TypeOf(commit{}))
	require.NoError(t, err)

	byPointer, err := cache.MapFunctionOf(&commit{})
	require.NoError(t, err)

	assert.Same(t, byValue, byPointer)
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	cache := NewCache(New(WithLogger(zap.New(core))))

	_, err := cache.MapFunctionOf(duplicateImport{})
	require.ErrorIs(t, err, ErrDuplicateParameter)

	_, err = cache.MapFunctionOf(duplicateImport{})
	require.ErrorIs(t, err, ErrDuplicateParameter)

	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 0, logs.FilterMessage("mapped function").Len())

	_, err = cache.MapFunction(nil)
	assert.ErrorIs(t, err, ErrNotAFunction)
}

func TestDefaultCache(t *testing.T) {
	first, err := MapFunctionOf(commit{})
	require.NoError(t, err)

	second, err := MapFunction(reflect.TypeOf(&commit{}))
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func localValidType() reflect.Type {
	type scopedBapi struct {
		_ struct{} `sap:"Z_SCOPED,bapi"`

		Value string `sap:"VALUE,import"`
	}

	return reflect.TypeOf(scopedBapi{})
}

func localBrokenType() reflect.Type {
	type scopedBapi struct {
		_ struct{} `sap:"Z_SCOPED,bapi"`

		Value string `sap:"VALUE,import"`
		Again string `sap:"VALUE,import"`
	}

	return reflect.TypeOf(scopedBapi{})
}

func TestCache_SameNamedLocalTypes(t *testing.T) {
	valid, broken := localValidType(), localBrokenType()
	require.Equal(t, valid.String(), broken.String())
	assert.NotEqual(t, groupKey(valid), groupKey(broken))

	cache := NewCache(New())

	const workers = 16

	var wg sync.WaitGroup

	for range workers {
		wg.Add(2)

		go func() {
			defer wg.Done()

			fm, err := cache.MapFunction(valid)
			if assert.NoError(t, err) {
				assert.Equal(t, valid, fm.AssociatedType())
			}
		}()

		go func() {
			defer wg.Done()

			_, err := cache.MapFunction(broken)
			assert.ErrorIs(t, err, ErrDuplicateParameter)
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, cache.Len())
}
