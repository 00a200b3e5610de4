// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package utils holds small shared helpers: pooled buffers and hashers
// used on the request hot path (payload hashing for signing, Content-MD5
// for bulk deletes).
package utils

import (
	"bytes"
	"crypto/md5"
	"hash"
	"sync"

	"github.com/minio/sha256-simd"
)

var (
	syncPool = sync.Pool{
		New: func() any {
			return new(bytes.Buffer)
		},
	}
	sha256Pool = sync.Pool{
		New: func() any {
			return sha256.New()
		},
	}
	md5Pool = sync.Pool{
		New: func() any {
			return md5.New()
		},
	}
)

func SyncPoolGetBuffer() *bytes.Buffer {
	return syncPool.Get().(*bytes.Buffer)
}

func SyncPoolPutBuffer(buffer *bytes.Buffer) {
	buffer.Reset()
	syncPool.Put(buffer)
}

func Sha256PoolGetHasher() hash.Hash {
	return sha256Pool.Get().(hash.Hash)
}

func Sha256PoolPutHasher(h hash.Hash) {
	h.Reset()
	sha256Pool.Put(h)
}

func Md5PoolGetHasher() hash.Hash {
	return md5Pool.Get().(hash.Hash)
}

func Md5PoolPutHasher(h hash.Hash) {
	h.Reset()
	md5Pool.Put(h)
}

// Sha256Sum hashes data with a pooled hasher.
func Sha256Sum(data []byte) []byte {
	h := Sha256PoolGetHasher()
	h.Write(data)
	sum := h.Sum(nil)
	Sha256PoolPutHasher(h)
	return sum
}

// Md5Sum hashes data with a pooled hasher.
func Md5Sum(data []byte) []byte {
	h := Md5PoolGetHasher()
	h.Write(data)
	sum := h.Sum(nil)
	Md5PoolPutHasher(h)
	return sum
}
