package state

import (
	"encoding/json"
	"fmt"

	"cv-builder/internal/domain"
)

// Envelope is the wire form of an action: {"type": "...", "payload": ...}.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type updatePayload[P any] struct {
	ID   string `json:"id"`
	Data P      `json:"data"`
}

// DecodeError reports a known action whose payload does not have the expected shape.
type DecodeError struct {
	Type  string
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("decode action: %v", e.Cause)
	}
	return fmt.Sprintf("decode action %s: %v", e.Type, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// DecodeAction parses one wire action. Unknown types decode to Unknown without error.
func DecodeAction(b []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, &DecodeError{Cause: err}
	}
	if env.Type == "" {
		return nil, &DecodeError{Cause: fmt.Errorf("missing type")}
	}
	return env.Action()
}

// Action converts the envelope into a typed action.
func (env Envelope) Action() (Action, error) {
	var (
		a   Action
		err error
	)
	switch env.Type {
	case TypeClearAllData:
		return ClearAllData{}, nil
	case TypeUpdatePersonalInfo:
		var p PersonalInfoPatch
		err = unmarshalPayload(env.Payload, &p)
		a = UpdatePersonalInfo{Patch: p}
	case TypeUpdateProfessionalSummary:
		var s string
		err = unmarshalPayload(env.Payload, &s)
		a = UpdateProfessionalSummary{Summary: s}

	case TypeAddEducation:
		var it domain.Education
		err = unmarshalPayload(env.Payload, &it)
		a = AddEducation{Item: it}
	case TypeUpdateEducation:
		var p updatePayload[EducationPatch]
		err = unmarshalPayload(env.Payload, &p)
		a = UpdateEducation{ID: p.ID, Patch: p.Data}
	case TypeDeleteEducation:
		var id string
		err = unmarshalPayload(env.Payload, &id)
		a = DeleteEducation{ID: id}

	case TypeAddExperience:
		var it domain.Experience
		err = unmarshalPayload(env.Payload, &it)
		a = AddExperience{Item: it}
	case TypeUpdateExperience:
		var p updatePayload[ExperiencePatch]
		err = unmarshalPayload(env.Payload, &p)
		a = UpdateExperience{ID: p.ID, Patch: p.Data}
	case TypeDeleteExperience:
		var id string
		err = unmarshalPayload(env.Payload, &id)
		a = DeleteExperience{ID: id}

	case TypeAddSkill:
		var it domain.Skill
		err = unmarshalPayload(env.Payload, &it)
		a = AddSkill{Item: it}
	case TypeUpdateSkill:
		var p updatePayload[SkillPatch]
		err = unmarshalPayload(env.Payload, &p)
		a = UpdateSkill{ID: p.ID, Patch: p.Data}
	case TypeDeleteSkill:
		var id string
		err = unmarshalPayload(env.Payload, &id)
		a = DeleteSkill{ID: id}

	case TypeAddLanguage:
		var it domain.Language
		err = unmarshalPayload(env.Payload, &it)
		a = AddLanguage{Item: it}
	case TypeUpdateLanguage:
		var p updatePayload[LanguagePatch]
		err = unmarshalPayload(env.Payload, &p)
		a = UpdateLanguage{ID: p.ID, Patch: p.Data}
	case TypeDeleteLanguage:
		var id string
		err = unmarshalPayload(env.Payload, &id)
		a = DeleteLanguage{ID: id}

	case TypeAddCertification:
		var it domain.Certification
		err = unmarshalPayload(env.Payload, &it)
		a = AddCertification{Item: it}
	case TypeUpdateCertification:
		var p updatePayload[CertificationPatch]
		err = unmarshalPayload(env.Payload, &p)
		a = UpdateCertification{ID: p.ID, Patch: p.Data}
	case TypeDeleteCertification:
		var id string
		err = unmarshalPayload(env.Payload, &id)
		a = DeleteCertification{ID: id}

	case TypeUpdateSettings:
		var p SettingsPatch
		err = unmarshalPayload(env.Payload, &p)
		a = UpdateSettings{Patch: p}
	case TypeLoadData:
		var st domain.AppState
		err = unmarshalPayload(env.Payload, &st)
		a = LoadData{State: st}
	default:
		return Unknown{Kind: env.Type}, nil
	}
	if err != nil {
		return nil, &DecodeError{Type: env.Type, Cause: err}
	}
	return a, nil
}

func unmarshalPayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return fmt.Errorf("missing payload")
	}
	return json.Unmarshal(raw, v)
}

// Encode produces the wire form of a.
func Encode(a Action) ([]byte, error) {
	var payload any
	switch act := a.(type) {
	case UpdatePersonalInfo:
		payload = act.Patch
	case UpdateProfessionalSummary:
		payload = act.Summary
	case AddEducation:
		payload = act.Item
	case UpdateEducation:
		payload = updatePayload[EducationPatch]{ID: act.ID, Data: act.Patch}
	case DeleteEducation:
		payload = act.ID
	case AddExperience:
		payload = act.Item
	case UpdateExperience:
		payload = updatePayload[ExperiencePatch]{ID: act.ID, Data: act.Patch}
	case DeleteExperience:
		payload = act.ID
	case AddSkill:
		payload = act.Item
	case UpdateSkill:
		payload = updatePayload[SkillPatch]{ID: act.ID, Data: act.Patch}
	case DeleteSkill:
		payload = act.ID
	case AddLanguage:
		payload = act.Item
	case UpdateLanguage:
		payload = updatePayload[LanguagePatch]{ID: act.ID, Data: act.Patch}
	case DeleteLanguage:
		payload = act.ID
	case AddCertification:
		payload = act.Item
	case UpdateCertification:
		payload = updatePayload[CertificationPatch]{ID: act.ID, Data: act.Patch}
	case DeleteCertification:
		payload = act.ID
	case UpdateSettings:
		payload = act.Patch
	case LoadData:
		payload = act.State
	}

	env := Envelope{Type: a.Type()}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}
