// Package xconf 基于 koanf 加载 YAML/JSON 配置。
//
// 通用加载：
//
//	cfg, err := xconf.New("ipindex.yaml")
//	var out MyConfig
//	err = cfg.Unmarshal("", &out)
//
// 枚举运行的配置使用 IndexConfig：
//
//	cfg, err := xconf.LoadIndexConfig("ipindex.yaml")
//	if err != nil {
//		return err
//	}
//	bounds, _ := cfg.Bounds()
//
// 配置中缺省的字段取 DefaultIndexConfig 的值。Validate 一次报告全部问题，
// 返回的错误匹配 ErrInvalidConfig。
package xconf
