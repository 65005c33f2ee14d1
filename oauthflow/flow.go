package oauthflow

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-discord-auth/discord"
	"github.com/jrsteele09/go-discord-auth/internal/config"
	apperrors "github.com/jrsteele09/go-discord-auth/internal/errors"
	"github.com/jrsteele09/go-discord-auth/signin"
	"github.com/jrsteele09/go-discord-auth/userstate"
	"github.com/rs/zerolog/log"
)

// Outcome describes a committed sign-in. The authenticated state has been
// written; RoleErr and NotifyErr report downstream calls that failed afterwards.
type Outcome struct {
	SubjectID string
	Identity  string

	RoleGranted bool
	Notified    bool
	RoleErr     error
	NotifyErr   error
}

// Partial reports whether the user is authenticated but the role grant or DM failed
func (o *Outcome) Partial() bool {
	return !o.RoleGranted || !o.Notified
}

// Flow completes pending sign-ins from the provider callback
type Flow struct {
	config   config.OAuthConfig
	keySet   oidc.KeySet
	requests *signin.Manager
	states   *userstate.Repo
	members  discord.Members
}

func NewFlow(cfg config.OAuthConfig, keySet oidc.KeySet, requests *signin.Manager, states *userstate.Repo, members discord.Members) *Flow {
	return &Flow{
		config:   cfg,
		keySet:   keySet,
		requests: requests,
		states:   states,
		members:  members,
	}
}

// Complete resolves the pending request named by state, exchanges code and
// records the user as authenticated.
//
// Errors: ErrNotFound for an unknown state, ErrExpired for a request past its
// expiry, ErrConfiguration, and *errors.ProviderError for a failed exchange.
// The authenticated state is written before the pending request is consumed,
// so a crash in between leaves a harmless request that expires on its own.
func (f *Flow) Complete(ctx context.Context, code, state string) (*Outcome, error) {
	req, err := f.requests.Resolve(ctx, state)
	if err != nil {
		return nil, err
	}
	if f.requests.IsExpired(req) {
		return nil, fmt.Errorf("[oauthflow Complete] request for %s: %w", req.SubjectID, apperrors.ErrExpired)
	}

	provider, err := NewProvider(f.config, f.keySet)
	if err != nil {
		return nil, err
	}
	token, err := provider.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	identity, err := provider.Identity(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, err := f.states.Put(ctx, req.SubjectID, identity); err != nil {
		return nil, err
	}
	if err := f.requests.Consume(ctx, state); err != nil {
		log.Warn().Err(err).Str("subject", req.SubjectID).Msg("failed to consume sign-in request")
	}

	outcome := &Outcome{SubjectID: req.SubjectID, Identity: identity}

	if err := f.members.GrantRole(ctx, req.SubjectID); err != nil {
		outcome.RoleErr = err
		log.Warn().Err(err).Str("subject", req.SubjectID).Msg("authenticated but role grant failed")
	} else {
		outcome.RoleGranted = true
	}

	embed := discord.AuthorizationSuccessEmbed()
	if !outcome.RoleGranted {
		embed = discord.RoleGrantFailedEmbed()
	}
	if err := f.members.Notify(ctx, req.SubjectID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	}); err != nil {
		outcome.NotifyErr = err
		log.Warn().Err(err).Str("subject", req.SubjectID).Msg("authenticated but DM notification failed")
	} else {
		outcome.Notified = true
	}

	log.Info().Str("subject", req.SubjectID).Bool("partial", outcome.Partial()).Msg("user authenticated")
	return outcome, nil
}
