package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/editorialstats/backend/internal/config"
	"github.com/editorialstats/backend/internal/models"
	"github.com/editorialstats/backend/internal/utils"
	"github.com/editorialstats/backend/pkg/logger"
)

var (
	ErrSessionIDRequired  = errors.New("session id required")
	ErrInvalidSession     = errors.New("invalid session")
	ErrAuthFailed         = errors.New("authentication failed")
	ErrORCIDNotConfigured = errors.New("orcid oauth not configured")
	ErrCodeRequired       = errors.New("authorization code required")
	ErrNoORCIDID          = errors.New("could not retrieve orcid id")
)

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	client *http.Client
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:     db,
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// UserProfile is the authenticated user view returned by the auth
// endpoints. The trust score is included but only marked visible once
// enough moderation history backs it.
type UserProfile struct {
	UserID                     string  `json:"user_id"`
	Email                      string  `json:"email"`
	Name                       string  `json:"name"`
	Picture                    *string `json:"picture"`
	ORCID                      *string `json:"orcid"`
	AuthProvider               string  `json:"auth_provider"`
	TrustScore                 float64 `json:"trust_score"`
	TrustScoreVisible          bool    `json:"trust_score_visible"`
	ContributionCount          int     `json:"contribution_count"`
	ValidatedCount             int     `json:"validated_count"`
	ValidatedWithEvidenceCount int     `json:"validated_with_evidence_count"`
	FlaggedCount               int     `json:"flagged_count"`
	IsAdmin                    bool    `json:"is_admin"`
}

// Profile builds the response view for one user.
func Profile(user *models.User) UserProfile {
	return UserProfile{
		UserID:                     user.UserID,
		Email:                      user.Email,
		Name:                       user.Name,
		Picture:                    user.Picture,
		ORCID:                      user.ORCID,
		AuthProvider:               user.AuthProvider,
		TrustScore:                 user.TrustScore,
		TrustScoreVisible:          user.TrustScoreVisible(),
		ContributionCount:          user.ContributionCount,
		ValidatedCount:             user.ValidatedCount,
		ValidatedWithEvidenceCount: user.ValidatedWithEvidenceCount,
		FlaggedCount:               user.FlaggedCount,
		IsAdmin:                    user.IsAdmin,
	}
}

// sessionData is the payload the upstream OAuth broker returns for a
// session id.
type sessionData struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

// ExchangeSession trades a post-OAuth session id for a platform session.
// The upstream broker vouches for the identity; the user record is
// created on first login.
func (s *AuthService) ExchangeSession(sessionID string) (*models.User, string, error) {
	if sessionID == "" {
		return nil, "", ErrSessionIDRequired
	}

	req, err := http.NewRequest(http.MethodGet, s.cfg.Auth.SessionDataURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("session data request failed")
		return nil, "", ErrAuthFailed
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", ErrInvalidSession
	}

	var data sessionData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		logger.Error().Err(err).Msg("session data decode failed")
		return nil, "", ErrAuthFailed
	}

	user, err := s.upsertGoogleUser(data)
	if err != nil {
		return nil, "", err
	}

	if err := s.createSession(user, data.SessionToken, "google"); err != nil {
		return nil, "", err
	}
	return user, data.SessionToken, nil
}

func (s *AuthService) upsertGoogleUser(data sessionData) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", data.Email).First(&user).Error
	if err == nil {
		updates := map[string]interface{}{"name": data.Name}
		if data.Picture != "" {
			updates["picture"] = data.Picture
		}
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		UserID:       utils.NewID("user"),
		Email:        data.Email,
		Name:         data.Name,
		AuthProvider: "google",
		HashedID:     utils.HashedUserID(data.Email, s.cfg.Auth.HashSalt),
	}
	if data.Picture != "" {
		user.Picture = &data.Picture
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	logger.Info().Str("user_id", user.UserID).Msg("user registered")
	return &user, nil
}

func (s *AuthService) createSession(user *models.User, token, provider string) error {
	session := models.Session{
		SessionID:    uuid.NewString(),
		UserID:       user.UserID,
		Token:        token,
		AuthProvider: provider,
		ExpiresAt:    time.Now().UTC().Add(time.Duration(s.cfg.Auth.SessionTTLDays) * 24 * time.Hour),
	}
	return s.db.Create(&session).Error
}

type ORCIDAuthorization struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
}

// ORCIDAuthorizeURL builds the ORCID authorization redirect. The state
// is a signed token carrying the post-login destination, so the callback
// can verify it was issued here.
func (s *AuthService) ORCIDAuthorizeURL(redirectAfter string) (*ORCIDAuthorization, error) {
	if s.cfg.ORCID.ClientID == "" || s.cfg.ORCID.RedirectURI == "" {
		return nil, ErrORCIDNotConfigured
	}
	if redirectAfter == "" {
		redirectAfter = "/dashboard"
	}

	state, err := utils.GenerateStateToken(redirectAfter, 15*time.Minute)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("client_id", s.cfg.ORCID.ClientID)
	params.Set("response_type", "code")
	params.Set("scope", "/authenticate")
	params.Set("redirect_uri", s.cfg.ORCID.RedirectURI)
	params.Set("state", state)

	return &ORCIDAuthorization{
		AuthorizationURL: fmt.Sprintf("%s/oauth/authorize?%s", s.cfg.ORCID.BaseURL, params.Encode()),
		State:            state,
	}, nil
}

// orcidToken is the relevant part of ORCID's token response; the iD and
// display name ride along with the access token.
type orcidToken struct {
	ORCID string `json:"orcid"`
	Name  string `json:"name"`
}

// ORCIDCallback finishes the ORCID flow: exchanges the code, hashes the
// iD (the raw iD is never stored) and opens a session. Returns the user,
// the session token and the destination from the state.
func (s *AuthService) ORCIDCallback(code, state string) (*models.User, string, string, error) {
	if code == "" {
		return nil, "", "", ErrCodeRequired
	}
	if s.cfg.ORCID.ClientID == "" || s.cfg.ORCID.ClientSecret == "" || s.cfg.ORCID.RedirectURI == "" {
		return nil, "", "", ErrORCIDNotConfigured
	}

	redirectAfter := "/dashboard"
	if claims, err := utils.ParseStateToken(state); err == nil && claims.Redirect != "" {
		redirectAfter = claims.Redirect
	}

	form := url.Values{}
	form.Set("client_id", s.cfg.ORCID.ClientID)
	form.Set("client_secret", s.cfg.ORCID.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", s.cfg.ORCID.RedirectURI)

	req, err := http.NewRequest(http.MethodPost, s.cfg.ORCID.BaseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, "", "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("orcid token exchange failed")
		return nil, "", "", ErrAuthFailed
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Error().Int("status", resp.StatusCode).Msg("orcid token exchange rejected")
		return nil, "", "", ErrAuthFailed
	}

	var token orcidToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, "", "", ErrAuthFailed
	}
	if token.ORCID == "" {
		return nil, "", "", ErrNoORCIDID
	}

	user, err := s.upsertORCIDUser(token)
	if err != nil {
		return nil, "", "", err
	}

	sessionToken := "orcid_" + utils.NewToken()
	if err := s.createSession(user, sessionToken, "orcid"); err != nil {
		return nil, "", "", err
	}
	return user, sessionToken, redirectAfter, nil
}

func (s *AuthService) upsertORCIDUser(token orcidToken) (*models.User, error) {
	orcidHash := utils.HashORCID(token.ORCID)

	var user models.User
	err := s.db.Where("orcid_hash = ?", orcidHash).First(&user).Error
	if err == nil {
		if token.Name != "" && token.Name != user.Name {
			if err := s.db.Model(&user).Update("name", token.Name).Error; err != nil {
				return nil, err
			}
			user.Name = token.Name
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	name := token.Name
	if name == "" {
		name = "ORCID User"
	}
	user = models.User{
		UserID: utils.NewID("user"),
		// Synthetic address for internal uniqueness only; never mailed.
		Email:        fmt.Sprintf("%s@orcid.internal", orcidHash[:16]),
		Name:         name,
		ORCIDHash:    &orcidHash,
		AuthProvider: "orcid",
		HashedID:     utils.HashedUserID(orcidHash, s.cfg.Auth.HashSalt),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	logger.Info().Str("user_id", user.UserID).Msg("orcid user registered")
	return &user, nil
}

type ORCIDStatus struct {
	Configured bool `json:"configured"`
	Sandbox    bool `json:"sandbox"`
}

// Status reports whether ORCID login is available.
func (s *AuthService) ORCIDStatus() ORCIDStatus {
	return ORCIDStatus{
		Configured: s.cfg.ORCID.ClientID != "" && s.cfg.ORCID.ClientSecret != "",
		Sandbox:    strings.Contains(strings.ToLower(s.cfg.ORCID.BaseURL), "sandbox"),
	}
}

// Logout deletes the session. Unknown tokens are ignored.
func (s *AuthService) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.db.Where("token = ?", token).Delete(&models.Session{}).Error
}

// UpdateProfile applies the user-editable profile fields.
func (s *AuthService) UpdateProfile(user *models.User, orcid *string) (*models.User, error) {
	if orcid != nil {
		if err := s.db.Model(user).Update("orcid", *orcid).Error; err != nil {
			return nil, err
		}
	}
	var fresh models.User
	if err := s.db.Where("user_id = ?", user.UserID).First(&fresh).Error; err != nil {
		return nil, err
	}
	return &fresh, nil
}
