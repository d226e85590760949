package main

import (
	"encoding/hex"
	"fmt"
	"math/rand/v2"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/go-conjecture/datatree/dtmetrics"
)

func sessionArg(ctx *cli.Context) (string, error) {
	path := ctx.Args().First()
	if path == "" {
		return "", errors.New("missing session file argument")
	}
	if !fileExists(path) {
		return "", errors.Errorf("no such session file: %s", path)
	}
	return path, nil
}

// record rebuilds the tree described by the session file and prints
// its shape: node count, exhausted node count, and whether the tree
// as a whole is now exhausted.
func record(ctx *cli.Context) error {
	path, err := sessionArg(ctx)
	if err != nil {
		return err
	}
	sf, err := loadSession(path)
	if err != nil {
		return err
	}
	tree, err := buildTree(sf)
	if err != nil {
		return errors.Wrap(err, "replay session")
	}
	tree.SetLogger(setupLogger(ctx))
	it := dtmetrics.NewInstrumentedTree(tree, prometheus.DefaultRegisterer)
	stats := tree.Stats()
	fmt.Printf("runs=%d nodes=%d exhausted_nodes=%d max_depth=%d tree_exhausted=%t\n",
		len(sf.Runs), stats.NodeCount, stats.ExhaustedNodeCount, stats.MaxDepth, it.IsExhausted())
	return nil
}

// rewrite replays a hex-encoded buffer against the tree described by
// the session file and reports the resulting status, or that the
// buffer reaches previously unseen territory.
func rewrite(ctx *cli.Context) error {
	path, err := sessionArg(ctx)
	if err != nil {
		return err
	}
	hexBuf := ctx.Args().Get(1)
	if hexBuf == "" {
		return errors.New("missing hex buffer argument")
	}
	buf, err := hex.DecodeString(hexBuf)
	if err != nil {
		return errors.Wrap(err, "decode hex buffer")
	}

	sf, err := loadSession(path)
	if err != nil {
		return err
	}
	tree, err := buildTree(sf)
	if err != nil {
		return errors.Wrap(err, "replay session")
	}
	tree.SetLogger(setupLogger(ctx))

	outBuf, status, known := tree.Rewrite(buf)
	if !known {
		fmt.Printf("unknown (consumed %s)\n", hex.EncodeToString(outBuf))
		return nil
	}
	fmt.Printf("%s (consumed %s)\n", status, hex.EncodeToString(outBuf))
	return nil
}

// prefix generates a novel prefix from the tree described by the
// session file, seeded deterministically from the given seed argument.
func prefix(ctx *cli.Context) error {
	path, err := sessionArg(ctx)
	if err != nil {
		return err
	}
	seedStr := ctx.Args().Get(1)
	if seedStr == "" {
		return errors.New("missing seed argument")
	}
	var seed uint64
	if _, err := fmt.Sscanf(seedStr, "%d", &seed); err != nil {
		return errors.Wrap(err, "parse seed")
	}

	sf, err := loadSession(path)
	if err != nil {
		return err
	}
	tree, err := buildTree(sf)
	if err != nil {
		return errors.Wrap(err, "replay session")
	}
	tree.SetLogger(setupLogger(ctx))

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out, err := tree.GenerateNovelPrefix(rng)
	if err != nil {
		return errors.Wrap(err, "generate novel prefix")
	}
	fmt.Println(hex.EncodeToString(out))
	return nil
}
