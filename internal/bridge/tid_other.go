//go:build !linux

package bridge

func threadID() int {
	return 0
}
