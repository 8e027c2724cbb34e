package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"skincare/internal/flash"
	"skincare/internal/model"
	"skincare/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Redirect targets of the sign-up form.
const (
	SignupPath = "/auth.html#signup"
	LoginPath  = "/auth.html"
)

const (
	MsgPasswordMismatch = "Passwords do not match"
	MsgFieldsRequired   = "All fields are required"
	MsgFieldTooLong     = "Fields must be at most 50 characters"
	MsgInvalidEmail     = "Invalid email address"
	MsgEmailExists      = "Email already exists"
	MsgRegistered       = "Registration successful"
	MsgInternal         = "Registration failed, please try again later"
)

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeInvalid
	OutcomeConflict
	OutcomeInternal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeConflict:
		return "conflict"
	case OutcomeInternal:
		return "internal"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is where the browser goes next and what it is told when it gets there.
type Outcome struct {
	Kind     OutcomeKind
	Redirect string
	Flash    flash.Message
}

// RegistrationForm is the raw sign-up submission.
type RegistrationForm struct {
	Name            string `validate:"max=50"`
	Email           string `validate:"max=50,email"`
	Password        string `validate:"max=50"`
	ConfirmPassword string
}

// UserStore is the persistence the workflow needs. CreateUser must return an error
// wrapping store.ErrEmailTaken when the email is already stored.
type UserStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, u *model.User) (*model.User, error)
}

type Validator interface {
	Validate(i interface{}) error
}

type Registration struct {
	users    UserStore
	hasher   PasswordHasher
	validate Validator
	log      logrus.FieldLogger
}

func NewRegistration(users UserStore, hasher PasswordHasher, validate Validator, log logrus.FieldLogger) *Registration {
	return &Registration{
		users:    users,
		hasher:   hasher,
		validate: validate,
		log:      log,
	}
}

// Register runs the sign-up checks in order and stores the account when all pass.
// The existence check only saves a bcrypt round; the unique constraint decides races.
func (r *Registration) Register(ctx context.Context, form RegistrationForm) Outcome {
	if form.Password != form.ConfirmPassword {
		return reject(OutcomeInvalid, MsgPasswordMismatch)
	}
	if isBlank(form.Name) || isBlank(form.Email) || isBlank(form.Password) {
		return reject(OutcomeInvalid, MsgFieldsRequired)
	}
	msg, err := r.check(form)
	if err != nil {
		return r.fail(form.Email, err)
	}
	if msg != "" {
		return reject(OutcomeInvalid, msg)
	}

	exists, err := r.users.EmailExists(ctx, form.Email)
	if err != nil {
		return r.fail(form.Email, err)
	}
	if exists {
		return reject(OutcomeConflict, MsgEmailExists)
	}

	hash, err := r.hasher.Hash(ctx, form.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return reject(OutcomeInvalid, MsgFieldTooLong)
	}
	if err != nil {
		return r.fail(form.Email, err)
	}

	user, err := r.users.CreateUser(ctx, &model.User{
		Name:         form.Name,
		Email:        form.Email,
		PasswordHash: hash,
	})
	if errors.Is(err, store.ErrEmailTaken) {
		r.log.WithField("email", form.Email).Info("registration lost race on unique email")
		return reject(OutcomeConflict, MsgEmailExists)
	}
	if err != nil {
		return r.fail(form.Email, err)
	}

	r.log.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("user registered")
	return Outcome{
		Kind:     OutcomeSuccess,
		Redirect: LoginPath,
		Flash:    flash.Success(MsgRegistered),
	}
}

// check applies the tag rules; length problems are reported before email syntax.
func (r *Registration) check(form RegistrationForm) (string, error) {
	err := r.validate.Validate(&form)
	if err == nil {
		return "", nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "", fmt.Errorf("validate form: %w", err)
	}
	msg := MsgInvalidEmail
	for _, fe := range verrs {
		if fe.Tag() == "max" {
			msg = MsgFieldTooLong
			break
		}
	}
	return msg, nil
}

func (r *Registration) fail(email string, err error) Outcome {
	r.log.WithError(err).WithField("email", email).Error("registration failed")
	return reject(OutcomeInternal, MsgInternal)
}

func reject(kind OutcomeKind, msg string) Outcome {
	return Outcome{
		Kind:     kind,
		Redirect: SignupPath,
		Flash:    flash.Error(msg),
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
