package storage

import "strings"

// PrefixStore exposes the slice of an inner store whose keys start with
// prefix, with the prefix stripped. Clear only removes that slice.
type PrefixStore struct {
	inner  Store
	prefix string
}

func NewPrefixStore(inner Store, prefix string) *PrefixStore {
	return &PrefixStore{inner: inner, prefix: prefix}
}

func (p *PrefixStore) Put(key, value string) error {
	return p.inner.Put(p.prefix+key, value)
}

func (p *PrefixStore) Get(key string) (string, bool, error) {
	return p.inner.Get(p.prefix + key)
}

func (p *PrefixStore) Remove(key string) error {
	return p.inner.Remove(p.prefix + key)
}

func (p *PrefixStore) Keys() ([]string, error) {
	all, err := p.inner.Keys()
	if err != nil {
		return nil, err
	}
	keys := []string{}
	for _, k := range all {
		if strings.HasPrefix(k, p.prefix) {
			keys = append(keys, strings.TrimPrefix(k, p.prefix))
		}
	}
	return keys, nil
}

func (p *PrefixStore) Clear() error {
	keys, err := p.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := p.Remove(k); err != nil {
			return err
		}
	}
	return nil
}
