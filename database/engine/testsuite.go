package engine

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSuiteEngine runs the engine contract against a driver.  The new
// function must return a freshly created, empty engine.
func TestSuiteEngine(t *testing.T, new func() Engine) {
	t.Run("PutGetDelete", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		key := []byte("key1")
		value := []byte("value1")

		// Absent before any write.
		gotValue, err := engine.Get(key)
		require.ErrorIsf(t, err, ErrNotFound, "expected not found before put")
		require.Nil(t, gotValue, "expected nil value for absent key")

		err = engine.Put(key, value)
		require.NoErrorf(t, err, "failed to put data")

		gotValue, err = engine.Get(key)
		require.NoErrorf(t, err, "failed to get value")
		require.Equalf(t, value, gotValue, "value mismatch")

		// Overwrite.
		err = engine.Put(key, []byte("value2"))
		require.NoErrorf(t, err, "failed to overwrite data")
		gotValue, err = engine.Get(key)
		require.NoErrorf(t, err, "failed to get value")
		require.Equalf(t, []byte("value2"), gotValue, "value mismatch")

		err = engine.Delete(key)
		require.NoErrorf(t, err, "failed to delete key")
		_, err = engine.Get(key)
		require.ErrorIsf(t, err, ErrNotFound, "expected not found after delete")

		// Deleting an absent key is not an error.
		err = engine.Delete(key)
		require.NoErrorf(t, err, "failed to delete absent key")
		err = engine.Delete([]byte("never-written"))
		require.NoErrorf(t, err, "failed to delete absent key")
	})

	t.Run("ArbitraryBytes", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		for _, test := range []struct {
			key   []byte
			value []byte
		}{
			{key: []byte{}, value: []byte("empty key")},
			{key: []byte("empty value"), value: []byte{}},
			{key: []byte{0x00, 0xff, 0x00}, value: []byte{0xde, 0xad, 0x00, 0xbe, 0xef}},
			{key: bytes.Repeat([]byte{0x7f}, 4096), value: bytes.Repeat([]byte{0x01}, 1<<16)},
		} {
			err := engine.Put(test.key, test.value)
			require.NoErrorf(t, err, "failed to put key %x", test.key)

			gotValue, err := engine.Get(test.key)
			require.NoErrorf(t, err, "failed to get key %x", test.key)
			require.NotNilf(t, gotValue, "expected non-nil value for key %x", test.key)
			require.Truef(t, bytes.Equal(test.value, gotValue), "value mismatch for key %x", test.key)
		}
	})

	t.Run("ValueIsCopied", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		key := []byte("key")
		value := []byte("value")
		require.NoError(t, engine.Put(key, value))

		// Mutating the caller's buffers must not change stored data.
		value[0] = 'X'
		key[0] = 'X'
		gotValue, err := engine.Get([]byte("key"))
		require.NoError(t, err)
		require.Equal(t, []byte("value"), gotValue)

		gotValue[0] = 'Y'
		gotValue, err = engine.Get([]byte("key"))
		require.NoError(t, err)
		require.Equal(t, []byte("value"), gotValue)
	})

	t.Run("ConcurrentAccess", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		const workers = 8
		const perWorker = 50

		var wg sync.WaitGroup
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					key := []byte(fmt.Sprintf("w%d-k%d", w, i))
					if err := engine.Put(key, key); err != nil {
						t.Errorf("put %s: %v", key, err)
						return
					}
					if _, err := engine.Get(key); err != nil {
						t.Errorf("get %s: %v", key, err)
						return
					}
				}
			}(w)
		}
		wg.Wait()

		for w := 0; w < workers; w++ {
			for i := 0; i < perWorker; i++ {
				key := []byte(fmt.Sprintf("w%d-k%d", w, i))
				gotValue, err := engine.Get(key)
				require.NoErrorf(t, err, "failed to get %s", key)
				require.Equal(t, key, gotValue)
			}
		}
	})

	t.Run("DbClose", func(t *testing.T) {
		engine := new()

		err := engine.Put([]byte("key"), []byte("value"))
		require.NoErrorf(t, err, "failed to put data")

		err = engine.Close()
		require.NoErrorf(t, err, "failed to close engine")

		// Ensure that the engine is closed
		err = engine.Close()
		require.ErrorIsf(t, err, ErrClosed, "expected to get error when closing closed engine")

		_, err = engine.Get([]byte("key"))
		require.ErrorIsf(t, err, ErrClosed, "expected to get error when reading from closed engine")

		err = engine.Put([]byte("key"), []byte("value"))
		require.ErrorIsf(t, err, ErrClosed, "expected to get error when writing to closed engine")

		err = engine.Delete([]byte("key"))
		require.ErrorIsf(t, err, ErrClosed, "expected to get error when deleting from closed engine")
	})
}
