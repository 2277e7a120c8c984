// Package zram sets up a compressed-RAM swap device via the Debian
// zram-tools package. It refuses to act while dphys-swapfile is active,
// creates its settings file exactly once (atomic create-if-absent, manual
// edits always win), and treats every failure as tolerable: a host without
// extra swap is degraded, not broken.
package zram
