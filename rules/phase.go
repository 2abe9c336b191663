package rules

// Phase is an ordered, named bundle of producers and validators. Producers
// within a phase run to a fixpoint before the next phase begins; validators
// from every phase are pooled and run once, after the last phase, in
// declaration order across phases.
type Phase struct {
	Name       string
	Producers  []*Producer
	Validators []*Validator
}

func (p *Phase) findProducer(name string) *Producer {
	for _, prod := range p.Producers {
		if prod.Name == name {
			return prod
		}
	}
	return nil
}
