// SPDX-License-Identifier: Unlicense OR MIT

package gpu

import (
	"fmt"
)

type resource interface {
	release()
}

// resourceCache holds resources that stay alive for as long as they
// are used at least once per frame.
type resourceCache[K comparable] struct {
	res    map[K]resource
	newRes map[K]resource
}

func newResourceCache[K comparable]() *resourceCache[K] {
	return &resourceCache[K]{
		res:    make(map[K]resource),
		newRes: make(map[K]resource),
	}
}

func (r *resourceCache[K]) get(key K) (resource, bool) {
	v, exists := r.res[key]
	if exists {
		r.newRes[key] = v
	}
	return v, exists
}

func (r *resourceCache[K]) put(key K, val resource) {
	if _, exists := r.newRes[key]; exists {
		panic(fmt.Errorf("key exists, %v", key))
	}
	r.res[key] = val
	r.newRes[key] = val
}

// frame releases every resource not used since the previous frame.
func (r *resourceCache[K]) frame() {
	for k, v := range r.res {
		if _, exists := r.newRes[k]; !exists {
			delete(r.res, k)
			v.release()
		}
	}
	for k, v := range r.newRes {
		delete(r.newRes, k)
		r.res[k] = v
	}
}

func (r *resourceCache[K]) len() int {
	return len(r.res)
}

func (r *resourceCache[K]) release() {
	for _, v := range r.res {
		v.release()
	}
	r.newRes = make(map[K]resource)
	r.res = make(map[K]resource)
}
