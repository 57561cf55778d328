package videobackend

import (
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/tauraamui/xerror"
)

const devicePathPrefix = "/dev/video"

func listDeviceNodes() ([]string, error) {
	matches, err := afero.Glob(fs, devicePathPrefix+"*")
	if err != nil {
		return nil, xerror.Errorf("unable to list video device nodes: %w", err)
	}

	nodes := matches[:0]
	for _, m := range matches {
		if _, ok := deviceIndex(m); ok {
			nodes = append(nodes, m)
		}
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		a, _ := deviceIndex(nodes[i])
		b, _ := deviceIndex(nodes[j])
		return a < b
	})
	return nodes, nil
}

// deviceIndex extracts N from "/dev/videoN" or a bare "N".
func deviceIndex(id string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(id, devicePathPrefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
