// Copyright 2017 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package timeutil

import (
	"time"
)

// TimeStamp defines a timestamp in unix seconds
type TimeStamp int64

var (
	// mock is NOT concurrency-safe!!
	mock time.Time

	timeZeroUnix = time.Time{}.Unix()
)

// MockSet sets the time to a mocked time.Time, for tests
func MockSet(now time.Time) {
	mock = now
}

// MockUnset unsets the mocked time.Time
func MockUnset() {
	mock = time.Time{}
}

// TimeStampNow returns now as a TimeStamp
func TimeStampNow() TimeStamp {
	if !mock.IsZero() {
		return TimeStamp(mock.Unix())
	}
	return TimeStamp(time.Now().Unix())
}

// Add adds seconds and return sum
func (ts TimeStamp) Add(seconds int64) TimeStamp {
	return ts + TimeStamp(seconds)
}

// AddDuration adds time.Duration and return sum
func (ts TimeStamp) AddDuration(interval time.Duration) TimeStamp {
	return ts + TimeStamp(interval/time.Second)
}

// AsTime converts the timestamp as local time.Time
func (ts TimeStamp) AsTime() time.Time {
	return time.Unix(int64(ts), 0)
}

// AsTimePtr converts the timestamp as *time.Time
func (ts TimeStamp) AsTimePtr() *time.Time {
	tm := ts.AsTime()
	return &tm
}

// Format formats the timestamp with the given layout
func (ts TimeStamp) Format(f string) string {
	return ts.AsTime().Format(f)
}

// IsZero is zero time
func (ts TimeStamp) IsZero() bool {
	return int64(ts) == 0 || int64(ts) == timeZeroUnix
}
