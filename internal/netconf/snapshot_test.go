package netconf

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testStore(t *testing.T) *SnapshotStore {
	t.Helper()
	return NewSnapshotStore(filepath.Join(t.TempDir(), "dns-snapshot.json"))
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := testStore(t)

	if store.Has("eth0") {
		t.Fatal("fresh store should have no snapshot")
	}

	if err := store.Save("eth0", []string{"192.168.1.1"}, SourceStatic); err != nil {
		t.Fatalf("Save: %v", err)
	}

	snap, err := store.Load("eth0")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	if want := []string{"192.168.1.1"}; !reflect.DeepEqual(snap.Servers, want) {
		t.Errorf("servers = %v, want %v", snap.Servers, want)
	}
	if snap.Source != SourceStatic {
		t.Errorf("source = %v, want static", snap.Source)
	}
	if snap.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestSnapshotSaveKeepsOriginal(t *testing.T) {
	store := testStore(t)

	if err := store.Save("eth0", []string{"192.168.1.1"}, SourceDHCP); err != nil {
		t.Fatal(err)
	}
	// A second save must not clobber the original settings.
	if err := store.Save("eth0", []string{"1.1.1.1"}, SourceStatic); err != nil {
		t.Fatal(err)
	}

	snap, err := store.Load("eth0")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"192.168.1.1"}; !reflect.DeepEqual(snap.Servers, want) {
		t.Errorf("servers = %v, want %v", snap.Servers, want)
	}
}

func TestSnapshotPerInterface(t *testing.T) {
	store := testStore(t)

	if err := store.Save("eth0", []string{"192.168.1.1"}, SourceDHCP); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("wlan0", []string{"10.0.0.1"}, SourceStatic); err != nil {
		t.Fatal(err)
	}

	if err := store.Clear("eth0"); err != nil {
		t.Fatal(err)
	}

	if store.Has("eth0") {
		t.Error("eth0 snapshot should be gone")
	}
	if !store.Has("wlan0") {
		t.Error("wlan0 snapshot should remain")
	}
}

func TestSnapshotClearRemovesEmptyFile(t *testing.T) {
	store := testStore(t)

	if err := store.Save("eth0", nil, SourceUnknown); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear("eth0"); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(store.path); !os.IsNotExist(err) {
		t.Errorf("expected snapshot file to be removed, stat err = %v", err)
	}

	// Clearing again is a no-op.
	if err := store.Clear("eth0"); err != nil {
		t.Errorf("Clear on empty store: %v", err)
	}
}
