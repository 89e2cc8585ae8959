package record

import (
	"encoding/json"
	"testing"
)

func TestBillKey_String(t *testing.T) {
	bill := Bill{Congress: 118, Type: "hr", Number: "2"}
	if got := bill.Key().String(); got != "118-HR-2" {
		t.Errorf("Key().String() = %q, want 118-HR-2", got)
	}
}

func TestSponsor_Name(t *testing.T) {
	if got := (Sponsor{FirstName: "Jane", LastName: "Doe"}).Name(); got != "Jane Doe" {
		t.Errorf("Name() = %q, want %q", got, "Jane Doe")
	}
	if got := (Sponsor{LastName: "Doe"}).Name(); got != "Doe" {
		t.Errorf("Name() = %q, want Doe", got)
	}
}

func TestOpinionText_Merge(t *testing.T) {
	have := OpinionText{Plain: "original"}
	fetched := OpinionText{Plain: "fetched", HTML: "<p>fetched</p>"}

	merged := have.Merge(fetched)
	if merged.Plain != "original" {
		t.Errorf("Plain = %q, want original text to be kept", merged.Plain)
	}
	if merged.HTML != "<p>fetched</p>" {
		t.Errorf("HTML = %q, want fetched html", merged.HTML)
	}
}

func TestOpinionText_HTMLBody(t *testing.T) {
	text := OpinionText{HTMLColumbia: "<p>columbia</p>", HTMLAnon2020: "<p>anon</p>"}
	if got := text.HTMLBody(); got != "<p>columbia</p>" {
		t.Errorf("HTMLBody() = %q, want the columbia variant", got)
	}
	if !(OpinionText{}).Empty() {
		t.Error("zero OpinionText should be empty")
	}
	if text.Empty() {
		t.Error("OpinionText with html should not be empty")
	}
}

func TestComposite_AllKeysSerialized(t *testing.T) {
	data, err := json.Marshal(NewComposite())
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	for _, key := range []string{"bills", "regulations", "code_sections", "comments", "opinions"} {
		raw, ok := decoded[key]
		if !ok {
			t.Errorf("missing key %q", key)
			continue
		}
		if string(raw) != "[]" {
			t.Errorf("key %q = %s, want []", key, raw)
		}
	}
}

func TestOpinion_OmitsAbsentOptionalFields(t *testing.T) {
	data, err := json.Marshal(Opinion{ID: 7, CaseName: "Roe v. Wade"})
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	for _, key := range []string{"citation_count", "text", "judges", "case_name_full"} {
		if _, ok := decoded[key]; ok {
			t.Errorf("absent field %q should be omitted", key)
		}
	}
}

func TestVote_KeyAndTally(t *testing.T) {
	v := Vote{
		Congress:   118,
		Chamber:    "House",
		Session:    2,
		RollNumber: 123,
		Members: []MemberVote{
			{Member: Sponsor{LastName: "Doe"}, Position: "Yea"},
			{Member: Sponsor{LastName: "Roe"}, Position: "Nay"},
			{Member: Sponsor{LastName: "Poe"}, Position: "Yea"},
			{Member: Sponsor{LastName: "Moe"}},
		},
	}
	if got := v.Key(); got != "118-House-2-123" {
		t.Errorf("Key() = %q, want 118-House-2-123", got)
	}
	if got := (Vote{RollNumber: 7}).Key(); got != "7" {
		t.Errorf("Key() = %q, want 7", got)
	}

	tally := v.Tally()
	if tally["Yea"] != 2 || tally["Nay"] != 1 || len(tally) != 2 {
		t.Errorf("Tally() = %v, want Yea:2 Nay:1", tally)
	}
}
