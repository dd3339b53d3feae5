// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies errors from sending a request by the
// network condition behind them. The tracing and metrics plugins use the
// category to label failed requests, and retry deciders may use it to
// retry only on conditions likely to clear up.
package transient
