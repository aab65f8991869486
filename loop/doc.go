// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package loop provides the Linux reactor event loop implementing the
// api.Registrar contract: epoll for file descriptors, a timerfd per
// timer source, an os/signal bridge over an eventfd for signals, and a
// FIFO of idle callbacks dispatched before blocking.
package loop
