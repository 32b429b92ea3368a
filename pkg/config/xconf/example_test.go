package xconf_test

import (
	"fmt"

	"github.com/omeyang/ipindex/pkg/config/xconf"
)

func ExampleLoadIndexConfigBytes() {
	cfg, err := xconf.LoadIndexConfigBytes([]byte(`
ranges: ["10", "0", "0-1", "0-255"]
batch_size: 100
`), xconf.FormatYAML)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(cfg.Ranges, cfg.BatchSize, cfg.Mode)
	// Output: [10 0 0-1 0-255] 100 sequential
}
