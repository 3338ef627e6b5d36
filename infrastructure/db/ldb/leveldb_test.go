package ldb

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func prepareDatabaseForTest(t *testing.T, testName string) (ldb *LevelDB, teardownFunc func()) {
	ldb, err := NewLevelDB(t.TempDir(), testName)
	if err != nil {
		t.Fatalf("%s: NewLevelDB unexpectedly failed: %s", testName, err)
	}
	teardownFunc = func() {
		err := ldb.Close()
		if err != nil {
			t.Fatalf("%s: Close unexpectedly failed: %s", testName, err)
		}
	}
	return ldb, teardownFunc
}

func TestLevelDBSanity(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestLevelDBSanity")
	defer teardownFunc()

	// Put something into the db
	key := []byte("key")
	putData := []byte("Hello world!")
	err := ldb.Put(key, putData)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Put returned "+
			"unexpected error: %s", err)
	}

	// Get from the key previously put to
	getData, err := ldb.Get(key)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Get returned "+
			"unexpected error: %s", err)
	}

	// Make sure that the put data and the get data are equal
	if !reflect.DeepEqual(getData, putData) {
		t.Fatalf("TestLevelDBSanity: get data and "+
			"put data are not equal. Put: %s, got: %s",
			string(putData), string(getData))
	}

	exists, err := ldb.Has(key)
	if err != nil || !exists {
		t.Fatalf("TestLevelDBSanity: Has returned %t, %v", exists, err)
	}

	err = ldb.Delete(key)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Delete returned "+
			"unexpected error: %s", err)
	}
	_, err = ldb.Get(key)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("TestLevelDBSanity: Get after Delete returned "+
			"wrong error: %v", err)
	}
	err = ldb.Delete(key)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: second Delete returned "+
			"unexpected error: %s", err)
	}
}

func TestForEach(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestForEach")
	defer teardownFunc()

	for i := 0; i < 5; i++ {
		err := ldb.Put([]byte(fmt.Sprintf("bucket/key%d", i)), []byte(fmt.Sprintf("value%d", i)))
		if err != nil {
			t.Fatalf("TestForEach: Put unexpectedly failed: %s", err)
		}
	}
	err := ldb.Put([]byte("other/key"), []byte("other"))
	if err != nil {
		t.Fatalf("TestForEach: Put unexpectedly failed: %s", err)
	}

	var values []string
	err = ldb.ForEach([]byte("bucket/"), func(key, value []byte) error {
		values = append(values, string(value))
		return nil
	})
	if err != nil {
		t.Fatalf("TestForEach: ForEach unexpectedly failed: %s", err)
	}
	expected := []string{"value0", "value1", "value2", "value3", "value4"}
	if !reflect.DeepEqual(values, expected) {
		t.Fatalf("TestForEach: got %v, want %v", values, expected)
	}

	stop := errors.New("stop")
	calls := 0
	err = ldb.ForEach([]byte("bucket/"), func(key, value []byte) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Fatalf("TestForEach: expected ForEach to stop after the first error, "+
			"got %v after %d calls", err, calls)
	}
}

func TestReopen(t *testing.T) {
	path := t.TempDir()
	ldb, err := NewLevelDB(path, "TestReopen")
	if err != nil {
		t.Fatalf("TestReopen: NewLevelDB unexpectedly failed: %s", err)
	}
	err = ldb.Put([]byte("key"), []byte("value"))
	if err != nil {
		t.Fatalf("TestReopen: Put unexpectedly failed: %s", err)
	}
	err = ldb.Close()
	if err != nil {
		t.Fatalf("TestReopen: Close unexpectedly failed: %s", err)
	}

	ldb, err = NewLevelDB(path, "TestReopen")
	if err != nil {
		t.Fatalf("TestReopen: second NewLevelDB unexpectedly failed: %s", err)
	}
	defer ldb.Close()
	value, err := ldb.Get([]byte("key"))
	if err != nil || string(value) != "value" {
		t.Fatalf("TestReopen: Get returned %q, %v", value, err)
	}
}
