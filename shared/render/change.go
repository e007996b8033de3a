package render

// ChangeDetection acompanha, por índice de frame em voo, se os comandos gravados
// para aquele índice ainda refletem o batch atual.
type ChangeDetection struct {
	stale []bool
}

// CanReuse marca a mudança (se houver) para todos os índices e informa se
// os comandos do índice podem ser reaproveitados.
func (c *ChangeDetection) CanReuse(index int, changed bool) bool {
	for len(c.stale) <= index {
		c.stale = append(c.stale, true)
	}
	if changed {
		for i := range c.stale {
			c.stale[i] = true
		}
	}
	reuse := !c.stale[index]
	c.stale[index] = false
	return reuse
}
