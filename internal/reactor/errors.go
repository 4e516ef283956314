// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reactor

import "errors"

// errNoFd reports that a Channel's Socket does not expose a raw file descriptor (e.g.
// netchan.StreamSocket), so it cannot be driven by this epoll-based Loop.
var errNoFd = errors.New("reactor: channel's socket does not expose a file descriptor")
