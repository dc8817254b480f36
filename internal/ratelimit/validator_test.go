package ratelimit

import (
	"context"
	"errors"
	"testing"

	"github.com/sherlingdev/flare-sub001/internal/model"
)

type fakeKeyStore struct {
	rec     *model.APIKey
	err     error
	lookups int
}

func (f *fakeKeyStore) GetActiveByKey(_ context.Context, _ string) (*model.APIKey, error) {
	f.lookups++
	return f.rec, f.err
}

func TestValidator_WrongPrefixSkipsLookup(t *testing.T) {
	store := &fakeKeyStore{rec: &model.APIKey{Key: "pk_abc", IsActive: true}}
	v := NewValidator(store)

	if got := v.Validate(context.Background(), "pk_abc"); got != nil {
		t.Fatalf("key without sk_ prefix must be invalid")
	}
	if store.lookups != 0 {
		t.Fatalf("prefix check must fail closed before hitting the store")
	}
}

func TestValidator_LookupErrorIsSwallowed(t *testing.T) {
	store := &fakeKeyStore{err: errors.New("store down")}
	v := NewValidator(store)

	if got := v.Validate(context.Background(), "sk_abc"); got != nil {
		t.Fatalf("lookup failure must read as invalid key, got %+v", got)
	}
}

func TestValidator_NotFound(t *testing.T) {
	v := NewValidator(&fakeKeyStore{})
	if got := v.Validate(context.Background(), "sk_unknown"); got != nil {
		t.Fatalf("unknown key must be invalid")
	}
}

func TestValidator_ActiveMatch(t *testing.T) {
	rec := &model.APIKey{ID: "01J", Key: "sk_abc", IsActive: true}
	v := NewValidator(&fakeKeyStore{rec: rec})

	got := v.Validate(context.Background(), "sk_abc")
	if got == nil || got.ID != "01J" {
		t.Fatalf("expected the stored record, got %+v", got)
	}
}
