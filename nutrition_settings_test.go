package main

import "testing"

func ptr[T any](v T) *T { return &v }

func TestValidateSettingsPatch(t *testing.T) {
	cases := []struct {
		name    string
		body    patchNutritionSettingsRequest
		wantErr bool
	}{
		{"empty", patchNutritionSettingsRequest{}, false},
		{"valid profile", patchNutritionSettingsRequest{
			Sex: ptr("female"), DateOfBirth: ptr("1992-06-30"), HeightCM: ptr(168.0),
			ActivityLevel: ptr("light"), GoalKgPerWeek: ptr(-0.5), MinDays: ptr(21),
		}, false},
		{"bad sex", patchNutritionSettingsRequest{Sex: ptr("other")}, true},
		{"bad dob", patchNutritionSettingsRequest{DateOfBirth: ptr("30/06/1992")}, true},
		{"short", patchNutritionSettingsRequest{HeightCM: ptr(20.0)}, true},
		{"unknown activity", patchNutritionSettingsRequest{ActivityLevel: ptr("couch")}, true},
		{"aggressive loss", patchNutritionSettingsRequest{GoalKgPerWeek: ptr(-1.5)}, true},
		{"aggressive gain", patchNutritionSettingsRequest{GoalKgPerWeek: ptr(0.75)}, true},
		{"min days too low", patchNutritionSettingsRequest{MinDays: ptr(3)}, true},
		{"min days too high", patchNutritionSettingsRequest{MinDays: ptr(90)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateSettingsPatch(&tc.body)
			if (err != nil) != tc.wantErr {
				t.Errorf("validateSettingsPatch() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
