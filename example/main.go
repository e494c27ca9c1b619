package main

import (
	"fmt"

	"github.com/memtab/arena"
)

type point struct {
	X, Y int32
}

func main() {
	a, err := arena.New(arena.Options{
		BlockSize: 4096,
		Backend:   arena.MmapBackend{},
	})
	if err != nil {
		panic(err)
	}
	defer a.Release()
	arena.Register("example", a)

	for i := 0; i < 1000; i++ {
		buf, err := a.Alloc(100)
		if err != nil {
			panic(err)
		}
		copy(buf, "hello arena")
	}

	p, err := arena.Make[point](a)
	if err != nil {
		panic(err)
	}
	p.X, p.Y = 3, 4

	stat := a.Stats()
	fmt.Println("blocks:", stat.Blocks)
	fmt.Println("used:", stat.Used)
	fmt.Println("avail:", stat.Avail)
	fmt.Printf("utilization: %.2f%%\n", stat.Utilization*100)

	dump, err := a.MarshalJSON()
	if err != nil {
		panic(err)
	}
	fmt.Println(string(dump))
}
