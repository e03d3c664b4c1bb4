//go:build !wgpunative

package probe

func adapter() (Info, error) { return Info{}, ErrUnavailable }
