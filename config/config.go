package config

import (
	"math/rand"
	"path/filepath"
)

import (
	"github.com/timtadh/cfistream/stores/bytes_int"
)

type Config struct {
	Cache   string
	Output  string
	Window  int
	Support int
	Loader  string
}

func (c *Config) Copy() *Config {
	return &Config{
		Cache:   c.Cache,
		Output:  c.Output,
		Window:  c.Window,
		Support: c.Support,
		Loader:  c.Loader,
	}
}

func (c *Config) Randstr() string {
	runes := make([]rune, 0, 10)
	for i := 0; i < 10; i++ {
		runes = append(runes, rune(97+rand.Intn(26)))
	}
	return string(runes)
}

func (c *Config) CacheFile(name string) string {
	return filepath.Join(c.Cache, name)
}

func (c *Config) OutputFile(name string) string {
	return filepath.Join(c.Output, name)
}

func (c *Config) BytesIntMultiMap(name string) (bytes_int.MultiMap, error) {
	if c.Cache == "" {
		return bytes_int.AnonBpTree()
	} else {
		return bytes_int.NewBpTree(c.CacheFile(name + "-" + c.Randstr() + ".bptree"))
	}
}
