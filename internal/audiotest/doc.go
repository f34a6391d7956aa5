// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds signal generators and fixtures shared by tests.
package audiotest
