package entity

// Collector keeps every builder declared during one evaluation in declaration
// order.
type Collector struct {
	builders []*Builder
}

func (c *Collector) Add(b *Builder) {
	c.builders = append(c.builders, b)
}

func (c *Collector) Len() int {
	return len(c.builders)
}

// Finalize seals every collected builder.
func (c *Collector) Finalize() []Entity {
	result := make([]Entity, len(c.builders))
	for idx, b := range c.builders {
		result[idx] = b.Finalize()
	}
	return result
}
