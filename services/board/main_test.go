// Copyright 2024 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package board

import (
	"testing"

	"github.com/deskboard/deskboard/models/unittest"
)

func TestMain(m *testing.M) {
	unittest.MainTest(m)
}
