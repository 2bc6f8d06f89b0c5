package mc

// Block runs fn over every path of block b in order. With antithetic sampling fn
// also receives the mirrored path, otherwise twin is nil. The slices are reused
// between calls and must be copied to be kept.
func Block(p Process, cfg Config, b int, fn func(path, twin []float64)) {
	lo, hi := cfg.BlockRange(b)
	r := Stream(cfg.Seed, b)
	z := make([]float64, p.Steps()*p.Factors())
	path := make([]float64, p.Steps()+1)
	var twin []float64
	if cfg.Antithetic {
		twin = make([]float64, p.Steps()+1)
	}
	for i := lo; i < hi; i++ {
		Draw(r, z)
		p.Path(z, 1, path)
		if twin != nil {
			p.Path(z, -1, twin)
		}
		fn(path, twin)
	}
}

// Simulate returns every path of the run, block by block. Antithetic twins follow
// the path they mirror.
func Simulate(p Process, cfg Config) ([][]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := cfg.Paths
	if cfg.Antithetic {
		n *= 2
	}
	out := make([][]float64, 0, n)
	for b := 0; b < cfg.Blocks(); b++ {
		Block(p, cfg, b, func(path, twin []float64) {
			out = append(out, append([]float64(nil), path...))
			if twin != nil {
				out = append(out, append([]float64(nil), twin...))
			}
		})
	}
	return out, nil
}
