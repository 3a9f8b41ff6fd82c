// Package testingx provides test helpers shared by yolk packages.
//
// # Overview
//
// testingx contains a mock logger with capture and assertions, coded-error
// assertions, and small file helpers for generator tests that work inside
// t.TempDir().
//
// # Usage
//
//	logger := testingx.NewMockLogger(t)
//	testingx.AssertError(t, err, errors.CodeAlreadyExists)
//	testingx.AssertFileContains(t, root, "app/models/User.js", "sequelize.define")
//
// # Layer
//
// Test-only. Depends on internal/log and internal/errors.
package testingx
