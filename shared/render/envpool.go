package render

// EnvPool guarda um slot de MapUniform por instância de mapa ativa.
// Cresce quando há mais mapas que slots e encolhe quando o uso cai para 50% ou menos,
// evitando realocações a cada oscilação do número de mapas.
type EnvPool struct {
	slots   []MapUniform
	resizes int
}

// Len retorna a capacidade atual (número de slots alocados).
func (p *EnvPool) Len() int { return len(p.slots) }

// Resizes retorna quantas vezes o pool foi realocado.
func (p *EnvPool) Resizes() int { return p.resizes }

// Reserve ajusta a capacidade para n mapas ativos. Retorna true se houve realocação.
func (p *EnvPool) Reserve(n int) bool {
	c := len(p.slots)
	if c == n {
		return false
	}
	if c < n || n <= c/2 {
		p.slots = make([]MapUniform, n)
		p.resizes++
		return true
	}
	return false
}

// Write grava os uniforms do frame nos slots, ajustando a capacidade antes.
func (p *EnvPool) Write(uniforms []MapUniform) {
	p.Reserve(len(uniforms))
	copy(p.slots, uniforms)
}

// Slot retorna o uniform do slot i.
func (p *EnvPool) Slot(i int) (MapUniform, bool) {
	if i < 0 || i >= len(p.slots) {
		return MapUniform{}, false
	}
	return p.slots[i], true
}
