// Copyright 2022 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package util

// Iif is an "inline-if", it returns "trueVal" if "condition" is true, otherwise "falseVal"
func Iif[T any](condition bool, trueVal, falseVal T) T {
	if condition {
		return trueVal
	}
	return falseVal
}

// SliceContains returns true if the target exists in the slice
func SliceContains[T comparable](slice []T, target T) bool {
	for i := range slice {
		if slice[i] == target {
			return true
		}
	}
	return false
}

// SliceRemoveAt returns a new slice with the element at the given index removed.
// The index must be within bounds.
func SliceRemoveAt[T any](slice []T, idx int) []T {
	res := make([]T, 0, len(slice)-1)
	res = append(res, slice[:idx]...)
	return append(res, slice[idx+1:]...)
}

// SliceInsertAt returns a new slice with the value inserted at the given index.
// The index must be within [0, len].
func SliceInsertAt[T any](slice []T, idx int, value T) []T {
	res := make([]T, 0, len(slice)+1)
	res = append(res, slice[:idx]...)
	res = append(res, value)
	return append(res, slice[idx:]...)
}
