package eligibility

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/superpiccell/spen-minter/config"
	"github.com/superpiccell/spen-minter/service/gateway"
	"github.com/superpiccell/spen-minter/service/logger"
	"github.com/superpiccell/spen-minter/service/persist"
)

// ContentProtection answers whether a single content item is protected. *catalog.ProtectionOracle implements it.
type ContentProtection interface {
	ContentProtected(ctx context.Context, id persist.ContentID) gateway.Result[bool]
}

// Inputs is one consistent snapshot of everything a decision depends on
type Inputs struct {
	Contents          []persist.ContentItem
	ContractProtected bool
	LoadingID         persist.ContentID
	NetworkMismatch   bool
	Minted            persist.ContentSet
}

// Loading reports whether any mint is in flight
func (in Inputs) Loading() bool {
	return in.LoadingID != ""
}

func (in Inputs) clone() Inputs {
	out := in
	out.Contents = append([]persist.ContentItem(nil), in.Contents...)
	out.Minted = in.Minted.Clone()
	return out
}

// Decide computes the disabled flag for every content item. contentProtected holds the per-content
// protection reads for this pass; a missing entry counts as not protected.
func Decide(in Inputs, features config.Features, contentProtected map[persist.ContentID]bool) map[persist.ContentID]bool {
	disabled := make(map[persist.ContentID]bool, len(in.Contents))
	for _, item := range in.Contents {
		disabled[item.ID] = decideOne(item.ID, in, features, contentProtected)
	}
	return disabled
}

func decideOne(id persist.ContentID, in Inputs, features config.Features, contentProtected map[persist.ContentID]bool) bool {
	switch {
	case in.Loading(), in.NetworkMismatch:
		return true
	case features.CheckCoreProtectedMode && !in.ContractProtected:
		return true
	case features.CheckContentProtectedMode && !contentProtected[id]:
		return true
	case features.CheckMintedContent && in.Minted.Has(id):
		return true
	}
	return false
}

// Reconciler keeps the per-content disabled map in step with its inputs. Every change triggers a
// full recompute over a snapshot of the inputs; a recompute that finishes after a newer change was
// made is discarded, so the published map always matches one snapshot.
type Reconciler struct {
	features   config.Features
	protection ContentProtection

	mu         sync.Mutex
	inputs     Inputs
	generation uint64
	disabled   map[persist.ContentID]bool
	listeners  []func(map[persist.ContentID]bool)
}

func NewReconciler(features config.Features, protection ContentProtection) *Reconciler {
	return &Reconciler{
		features:   features,
		protection: protection,
		inputs:     Inputs{Minted: persist.NewContentSet()},
		disabled:   map[persist.ContentID]bool{},
	}
}

// Features returns the active checks
func (r *Reconciler) Features() config.Features {
	return r.features
}

// Inputs returns a copy of the current inputs
func (r *Reconciler) Inputs() Inputs {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inputs.clone()
}

// Disabled returns a copy of the last published map
func (r *Reconciler) Disabled() map[persist.ContentID]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyMap(r.disabled)
}

// IsDisabled reports the decision for one item. While a mint is loading or the network is
// mismatched every item is disabled, even before the next recompute is published.
func (r *Reconciler) IsDisabled(id persist.ContentID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inputs.Loading() || r.inputs.NetworkMismatch {
		return true
	}
	disabled, ok := r.disabled[id]
	return !ok || disabled
}

// OnChange registers fn to receive every published map
func (r *Reconciler) OnChange(fn func(map[persist.ContentID]bool)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

func (r *Reconciler) SetContents(ctx context.Context, contents []persist.ContentItem) map[persist.ContentID]bool {
	return r.change(ctx, func(in *Inputs) {
		in.Contents = append([]persist.ContentItem(nil), contents...)
	})
}

func (r *Reconciler) SetContractProtected(ctx context.Context, protected bool) map[persist.ContentID]bool {
	return r.change(ctx, func(in *Inputs) { in.ContractProtected = protected })
}

func (r *Reconciler) SetNetworkMismatch(ctx context.Context, mismatch bool) map[persist.ContentID]bool {
	return r.change(ctx, func(in *Inputs) { in.NetworkMismatch = mismatch })
}

func (r *Reconciler) SetMinted(ctx context.Context, minted persist.ContentSet) map[persist.ContentID]bool {
	return r.change(ctx, func(in *Inputs) { in.Minted = minted.Clone() })
}

// AddMinted records one freshly minted content id
func (r *Reconciler) AddMinted(ctx context.Context, id persist.ContentID) map[persist.ContentID]bool {
	return r.change(ctx, func(in *Inputs) {
		minted := in.Minted.Clone()
		minted.Add(id)
		in.Minted = minted
	})
}

// TryBeginMint marks id as loading unless another mint is already in flight
func (r *Reconciler) TryBeginMint(ctx context.Context, id persist.ContentID) bool {
	r.mu.Lock()
	if r.inputs.Loading() {
		r.mu.Unlock()
		return false
	}
	r.inputs.LoadingID = id
	r.generation++
	r.mu.Unlock()

	r.Recompute(ctx)
	return true
}

// EndMint clears the loading marker if it still belongs to id
func (r *Reconciler) EndMint(ctx context.Context, id persist.ContentID) {
	r.mu.Lock()
	if r.inputs.LoadingID != id {
		r.mu.Unlock()
		return
	}
	r.inputs.LoadingID = ""
	r.generation++
	r.mu.Unlock()

	r.Recompute(ctx)
}

// LoadingID returns the content id being minted, or "" if none
func (r *Reconciler) LoadingID() persist.ContentID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inputs.LoadingID
}

func (r *Reconciler) change(ctx context.Context, fn func(*Inputs)) map[persist.ContentID]bool {
	r.mu.Lock()
	fn(&r.inputs)
	r.generation++
	r.mu.Unlock()

	return r.Recompute(ctx)
}

// Recompute runs a full pass over the current inputs and publishes the result unless the inputs
// changed meanwhile. Per-content protection is read afresh on every pass.
func (r *Reconciler) Recompute(ctx context.Context) map[persist.ContentID]bool {
	r.mu.Lock()
	snapshot := r.inputs.clone()
	generation := r.generation
	r.mu.Unlock()

	contentProtected := r.readContentProtection(ctx, snapshot)
	disabled := Decide(snapshot, r.features, contentProtected)

	r.mu.Lock()
	if generation != r.generation {
		r.mu.Unlock()
		logger.For(ctx).WithFields(logrus.Fields{"generation": generation}).Debug("discarding stale eligibility pass")
		return disabled
	}
	r.disabled = disabled
	listeners := append([]func(map[persist.ContentID]bool){}, r.listeners...)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(copyMap(disabled))
	}
	return disabled
}

func (r *Reconciler) readContentProtection(ctx context.Context, in Inputs) map[persist.ContentID]bool {
	if !r.features.CheckContentProtectedMode || in.Loading() || in.NetworkMismatch || r.protection == nil {
		return nil
	}
	protected := make(map[persist.ContentID]bool, len(in.Contents))
	for _, item := range in.Contents {
		res := r.protection.ContentProtected(ctx, item.ID)
		if !res.OK() {
			logger.For(ctx).WithError(res.Err()).WithFields(logrus.Fields{"contentId": item.ID}).Error("Error checking content protection status")
		}
		protected[item.ID] = res.ValueOr(false)
	}
	return protected
}

func copyMap(m map[persist.ContentID]bool) map[persist.ContentID]bool {
	out := make(map[persist.ContentID]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
