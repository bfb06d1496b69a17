package journal

import (
	"sync"

	"github.com/Monnoroch/blockstream/errors"
)

// StoreCreator is a function that creates a specific type of store from config.
type StoreCreator func(arg interface{}) (Store, error)

var slock sync.Mutex
var stores map[string]StoreCreator

// Register store creator by store type.
func RegisterCreator(stype string, creator StoreCreator) error {
	slock.Lock()
	defer slock.Unlock()

	if stores == nil {
		stores = map[string]StoreCreator{}
	}

	if _, ok := stores[stype]; ok {
		return errors.Newf("RegisterCreator: there already is store creator for type \"%s\"", stype)
	}

	stores[stype] = creator
	return nil
}

// Create a store by it's type and config.
func Create(stype string, arg interface{}) (Store, error) {
	slock.Lock()
	defer slock.Unlock()

	r, ok := stores[stype]
	if !ok {
		return nil, errors.Newf("Create: no store type \"%s\"", stype)
	}
	return r(arg)
}

// List all the store types registered.
func CreatorTypes() []string {
	slock.Lock()
	defer slock.Unlock()

	res := make([]string, 0, len(stores))
	for k := range stores {
		res = append(res, k)
	}
	return res
}

// Register store creators provided by this library.
func RegisterDefault() {
	RegisterCreator("nil", func(arg interface{}) (Store, error) {
		return NewNil(), nil
	})
	RegisterCreator("mem", func(arg interface{}) (Store, error) {
		return NewMem(), nil
	})
	RegisterCreator("ledis", func(arg interface{}) (Store, error) {
		dir, ok := arg.(string)
		if !ok {
			return nil, errors.Newf("ledis creator: Expected string as arg, got %v", arg)
		}
		return NewLedis(dir)
	})
	RegisterCreator("http", func(arg interface{}) (Store, error) {
		url, ok := arg.(string)
		if !ok {
			return nil, errors.Newf("http creator: Expected string as arg, got %v", arg)
		}
		return NewHTTP(url, nil), nil
	})
	RegisterCreator("dir", func(arg interface{}) (Store, error) {
		dir, ok := arg.(string)
		if !ok {
			return nil, errors.Newf("dir creator: Expected string as arg, got %v", arg)
		}
		return NewDir(dir)
	})
}
