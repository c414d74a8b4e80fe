package store_test

import (
	"testing"

	"ratchetstore/internal/domain"
	"ratchetstore/internal/store"
)

func TestSenderKeyStore_TupleIsolation(t *testing.T) {
	s := store.NewMemorySenderKeyStore()

	senderA := domain.Address{Name: "alice", DeviceID: 1}
	senderB := domain.Address{Name: "bob", DeviceID: 1}

	names := []domain.SenderKeyName{
		{GroupID: "group-1", Sender: senderA},
		{GroupID: "group-1", Sender: senderB},
		{GroupID: "group-2", Sender: senderA},
	}
	for i, n := range names {
		if err := s.StoreSenderKey(n, []byte{byte(i)}); err != nil {
			t.Fatalf("store %v: %v", n, err)
		}
	}

	for i, n := range names {
		record, ok, err := s.LoadSenderKey(n)
		if err != nil {
			t.Fatalf("load %v: %v", n, err)
		}
		if !ok {
			t.Fatalf("record for %v missing", n)
		}
		if len(record) != 1 || record[0] != byte(i) {
			t.Fatalf("record for %v leaked from another tuple: %v", n, record)
		}
	}
}

func TestSenderKeyStore_DeviceScoped(t *testing.T) {
	s := store.NewMemorySenderKeyStore()

	d1 := domain.SenderKeyName{GroupID: "g", Sender: domain.Address{Name: "alice", DeviceID: 1}}
	d2 := domain.SenderKeyName{GroupID: "g", Sender: domain.Address{Name: "alice", DeviceID: 2}}

	if err := s.StoreSenderKey(d1, []byte("one")); err != nil {
		t.Fatalf("store: %v", err)
	}

	if _, ok, _ := s.LoadSenderKey(d2); ok {
		t.Fatal("record aliased across device ids")
	}

	if err := s.StoreSenderKey(d2, []byte("two")); err != nil {
		t.Fatalf("store: %v", err)
	}
	record, ok, err := s.LoadSenderKey(d1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok || string(record) != "one" {
		t.Fatalf("device 1 record clobbered: %q", record)
	}
}

func TestSenderKeyStore_LoadMissAndOverwrite(t *testing.T) {
	s := store.NewMemorySenderKeyStore()
	name := domain.SenderKeyName{GroupID: "g", Sender: domain.Address{Name: "alice", DeviceID: 1}}

	record, ok, err := s.LoadSenderKey(name)
	if err != nil {
		t.Fatalf("load miss: %v", err)
	}
	if ok || record != nil {
		t.Fatal("load miss should return (nil, false)")
	}

	if err := s.StoreSenderKey(name, []byte("v1")); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := s.StoreSenderKey(name, []byte("v2")); err != nil {
		t.Fatalf("store: %v", err)
	}
	record, ok, err = s.LoadSenderKey(name)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok || string(record) != "v2" {
		t.Fatalf("got %q, want full replacement %q", record, "v2")
	}
}
