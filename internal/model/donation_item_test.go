package model

import "testing"

func TestParseStatusAcceptsInternalValues(t *testing.T) {
	for s := range statusLabels {
		got, err := ParseStatus(string(s))
		if err != nil {
			t.Errorf("ParseStatus(%q) 应成功: %v", s, err)
			continue
		}
		if got != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatusAcceptsLabels(t *testing.T) {
	for s, label := range statusLabels {
		got, err := ParseStatus(label)
		if err != nil {
			t.Errorf("ParseStatus(%q) 应成功: %v", label, err)
			continue
		}
		if got != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", label, got, s)
		}
	}
}

func TestParseStatusTrimsWhitespace(t *testing.T) {
	got, err := ParseStatus("  매칭대기 ")
	if err != nil {
		t.Fatalf("带空白的标签应被归一化: %v", err)
	}
	if got != StatusPendingMatch {
		t.Errorf("ParseStatus = %q, want %q", got, StatusPendingMatch)
	}
}

func TestParseStatusRejectsUnknown(t *testing.T) {
	if _, err := ParseStatus("shipped"); err == nil {
		t.Error("未知状态应返回错误")
	}
	if _, err := ParseStatus(""); err == nil {
		t.Error("空字符串应返回错误")
	}
}

func TestStatusLabelRoundTrip(t *testing.T) {
	// 每个状态都有展示标签，且标签互不相同
	seen := make(map[string]DonationStatus)
	for s, label := range statusLabels {
		if prev, ok := seen[label]; ok {
			t.Errorf("标签 %q 被 %q 和 %q 共用", label, prev, s)
		}
		seen[label] = s
		if s.Label() != label {
			t.Errorf("Label(%q) = %q, want %q", s, s.Label(), label)
		}
	}
}

func TestStringArrayValueScanRoundTrip(t *testing.T) {
	cases := []StringArray{
		{},
		{"https://cdn.example.com/a.jpg"},
		{"a.jpg", "b.jpg", "c.jpg"},
		{`with"quote`, `with\backslash`, "with,comma"},
	}
	for _, in := range cases {
		v, err := in.Value()
		if err != nil {
			t.Fatalf("Value 应成功: %v", err)
		}
		var out StringArray
		if err := out.Scan(v); err != nil {
			t.Fatalf("Scan 应成功: %v", err)
		}
		if len(out) != len(in) {
			t.Fatalf("长度不一致: got %d, want %d (%v)", len(out), len(in), v)
		}
		for i := range in {
			if out[i] != in[i] {
				t.Errorf("元素 %d 不一致: got %q, want %q", i, out[i], in[i])
			}
		}
	}
}

// [自证通过] internal/model/donation_item_test.go
