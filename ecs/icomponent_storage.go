package ecs

import (
	"reflect"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// iComponentStorage is the type-erased view of a component pool that
// Storage, views and deferred commands work through.
type iComponentStorage interface {
	Type() reflect.Type
	Contains(index uint32) bool
	Remove(index uint32)
	Ptr(index uint32) unsafe.Pointer
	AssignFrom(index uint32, src unsafe.Pointer)
	AssignAny(index uint32, item any) bool
	Len() int
	Indexes() []uint32
	Bitmap() *roaring64.Bitmap
	Reset()
}
