package main

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/go-conjecture/datatree/datatree"
	"github.com/go-conjecture/datatree/source"
)

// drawSpec describes one draw_bits call within a recorded run.
type drawSpec struct {
	Bits   uint8  `toml:"bits"`
	Value  uint64 `toml:"value"`
	Forced bool   `toml:"forced"`
}

// run describes one complete recorded execution: a sequence of draws
// followed by a conclusion.
type run struct {
	Draws  []drawSpec `toml:"draws"`
	Status string     `toml:"status"`
	Origin string     `toml:"origin"`
}

// sessionFile is the on-disk description of every run known to a
// session. conjtool rebuilds the tree from this description on every
// invocation rather than persisting the tree itself, consistent with
// the library's no-cross-process-persistence design.
type sessionFile struct {
	Runs []run `toml:"run"`
}

func loadSession(path string) (*sessionFile, error) {
	var sf sessionFile
	if _, err := toml.DecodeFile(path, &sf); err != nil {
		return nil, errors.Wrap(err, "decode session file")
	}
	return &sf, nil
}

func statusFromString(s string) (source.Status, error) {
	switch s {
	case "valid":
		return source.StatusValid, nil
	case "invalid":
		return source.StatusInvalid, nil
	case "interesting":
		return source.StatusInteresting, nil
	default:
		return 0, errors.Errorf("unknown status %q (want valid, invalid, or interesting)", s)
	}
}

// buildTree replays every run in sf against a fresh tree, in order.
func buildTree(sf *sessionFile) (*datatree.Tree, error) {
	tree := datatree.New()
	for i, r := range sf.Runs {
		status, err := statusFromString(r.Status)
		if err != nil {
			return nil, errors.Wrapf(err, "run %d", i)
		}
		obs := tree.NewObserver()
		for _, d := range r.Draws {
			if err := obs.OnDraw(d.Bits, d.Forced, d.Value); err != nil {
				return nil, errors.Wrapf(err, "run %d", i)
			}
		}
		if err := obs.OnConclude(status, r.Origin); err != nil {
			return nil, errors.Wrapf(err, "run %d", i)
		}
	}
	return tree, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
